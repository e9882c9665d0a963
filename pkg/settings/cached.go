package settings

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/punky97/go-codebase/core/cache/local"
	"github.com/punky97/go-codebase/core/logger"
	"pageview-capi/dto"
)

const (
	DefaultCacheTTL = 60 * time.Second

	settingsCacheKey = "pageview:settings"
)

// CachedProvider keeps the loaded settings in a go-codebase local cache for ttl.
// A failed reload serves the last good value when there is one. Concurrent
// callers that find the entry expired wait for a single reload.
type CachedProvider struct {
	next  Provider
	ttl   time.Duration
	local *local.BkLocalCache

	reload sync.Mutex

	mu   sync.RWMutex
	last *dto.Pixel
}

func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{next: next, ttl: ttl, local: local.NewLocalCache(1)}
}

func (c *CachedProvider) Load(ctx context.Context) (*dto.Pixel, error) {
	if pixel, ok := c.cached(ctx); ok {
		return pixel, nil
	}

	c.reload.Lock()
	defer c.reload.Unlock()

	// someone else may have reloaded while we waited
	if pixel, ok := c.cached(ctx); ok {
		return pixel, nil
	}

	fresh, err := c.next.Load(ctx)
	if err != nil {
		if last := c.lastGood(); last != nil {
			logger.LoggerCtx(ctx).Warnw("Reload settings failed, serving cached value", "err", err.Error())
			return last, nil
		}
		return nil, err
	}
	if fresh == nil {
		fresh = &dto.Pixel{}
	}

	c.store(ctx, fresh)
	return fresh, nil
}

func (c *CachedProvider) cached(ctx context.Context) (*dto.Pixel, bool) {
	v, code, err := c.local.Get(settingsCacheKey)
	if err != nil {
		logger.LoggerCtx(ctx).Warnw("Read settings cache", "err", err.Error())
		return nil, false
	}
	if code != local.CacheCodeHit {
		return nil, false
	}

	raw, ok := v.(string)
	if !ok {
		return nil, false
	}
	pixel := &dto.Pixel{}
	if err := json.Unmarshal([]byte(raw), pixel); err != nil {
		return nil, false
	}
	return pixel, true
}

// store keeps fresh both in the local cache, which drops it after ttl, and as
// the last good value.
func (c *CachedProvider) store(ctx context.Context, fresh *dto.Pixel) {
	raw, err := json.Marshal(fresh)
	if err == nil {
		err = c.local.Set(settingsCacheKey, string(raw), c.ttl)
	}
	if err != nil {
		logger.LoggerCtx(ctx).Warnw("Write settings cache", "err", err.Error())
	}

	c.mu.Lock()
	c.last = copyPixel(fresh)
	c.mu.Unlock()
}

func (c *CachedProvider) lastGood() *dto.Pixel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return nil
	}
	return copyPixel(c.last)
}

func copyPixel(p *dto.Pixel) *dto.Pixel {
	cp := *p
	return &cp
}
