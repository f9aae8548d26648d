package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/repository"
)

// KeyPrefix namespaces every key this store writes.
const KeyPrefix = "neuroquiz:"

type kvRepository struct {
	client redis.UniversalClient
}

// NewKVRepository creates a KVStore on top of an existing Redis client.
func NewKVRepository(client redis.UniversalClient) (repository.KVStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for KV repository")
	}
	return &kvRepository{client: client}, nil
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("redis_kv")
	log.Debug("getting key: %s", key)

	val, err := r.client.Get(ctx, KeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		log.Error("failed to get key %s: %v", key, err)
		return "", false, err
	}
	return val, true, nil
}

func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("redis_kv")
	log.Debug("setting key: %s (%d bytes)", key, len(value))

	if err := r.client.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		log.Error("failed to set key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *kvRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
