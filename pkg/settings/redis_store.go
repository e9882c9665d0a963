package settings

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/punky97/go-codebase/core/drivers/bkredis"
	"github.com/spf13/viper"
	"pageview-capi/dto"
)

const DefaultRedisKey = "wssc:settings"

type hashReader interface {
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
}

// RedisStore reads the settings from one redis hash, one field per key.
type RedisStore struct {
	client hashReader
	key    string
}

func NewRedisStore(client hashReader, key string) *RedisStore {
	if len(key) == 0 {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// NewRedisStoreFromConfig connects with the redis.* settings understood by bkredis.
func NewRedisStoreFromConfig(ctx context.Context) (*RedisStore, *bkredis.RedisClient, error) {
	rd, err := bkredis.NewConnection(ctx, bkredis.DefaultRedisConnectionFromConfig())
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect settings redis")
	}
	return NewRedisStore(rd.GetClient(), viper.GetString("settings.redis_key")), rd, nil
}

func (s *RedisStore) Load(ctx context.Context) (*dto.Pixel, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrapf(err, "hgetall %v", s.key)
	}
	return fromValues(values), nil
}
