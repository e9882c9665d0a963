package settings

import (
	"context"

	"github.com/pkg/errors"
	"github.com/punky97/go-codebase/core/logger"
	"pageview-capi/pkg/utils"
)

// NewFromConfig builds the provider named by settings.source behind a cache of
// settings.cache_ttl seconds. The returned close func releases the backend.
func NewFromConfig(ctx context.Context) (Provider, func(), error) {
	var (
		store   Provider
		closeFn = func() {}
	)

	switch source := Source(); source {
	case SourceViper:
		store = NewViperStore()
	case SourceMysql:
		ms, err := NewMysqlStoreFromConfig()
		if err != nil {
			return nil, nil, err
		}
		store = ms
		closeFn = func() {
			if err := ms.Close(); err != nil {
				logger.BkLog.Warnw("Close settings database", "err", err.Error())
			}
		}
	case SourceRedis:
		rs, rd, err := NewRedisStoreFromConfig(ctx)
		if err != nil {
			return nil, nil, err
		}
		store = rs
		closeFn = func() {
			if err := rd.Close(); err != nil {
				logger.BkLog.Warnw("Close settings redis", "err", err.Error())
			}
		}
	default:
		return nil, nil, errors.Wrap(ErrUnknownSource, source)
	}

	ttl := utils.ViperGetSecondsWithDefault("settings.cache_ttl", DefaultCacheTTL)
	logger.BkLog.Infof("Settings source: %v, cache ttl: %v", Source(), ttl)

	return NewCachedProvider(store, ttl), closeFn, nil
}
