package redis

import (
	"context"
	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/pkg/exceptions"

	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) contracts.RedisRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return err
}

func (r *redisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = r.client.Set(ctx, key, jsonValue, exp).Err()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return err
}

func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return data, nil
	} else if err != nil {
		return data, exceptions.ErrRedisGetNoData(err, key)
	}

	return data, err
}

// IncrementWithTTL bumps a counter and arms its expiry on first use, so
// fixed-window keys clean themselves up.
func (r *redisRepository) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	newCount, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, exceptions.ErrRedisIncrement(err)
	}

	if newCount == 1 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return int(newCount), exceptions.ErrRedisSet(err)
		}
	}
	return int(newCount), nil
}

func (r *redisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	acquired, err := r.client.SetNX(ctx, key, jsonValue, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSet(err)
	}
	return acquired, nil
}
