// README: Redis client initialization and the Redis-backed KV (WATCH/MULTI updates).
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// redisUpdateAttempts bounds optimistic retries when another writer touches
// the watched key between read and EXEC.
const redisUpdateAttempts = 16

type RedisKV struct {
	client *redis.Client
	prefix string
}

func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

func (r *RedisKV) key(k string) string {
	return r.prefix + k
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Update(ctx context.Context, key string, fn UpdateFunc) error {
	k := r.key(key)
	for attempt := 0; attempt < redisUpdateAttempts; attempt++ {
		var fnErr error
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			cur, err := tx.Get(ctx, k).Bytes()
			found := true
			if errors.Is(err, redis.Nil) {
				cur, found = nil, false
			} else if err != nil {
				return err
			}

			next, err := fn(cur, found)
			if err != nil {
				fnErr = err
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, k, next, 0)
				return nil
			})
			return err
		}, k)

		if fnErr != nil {
			return fnErr
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis update %s: %w", key, err)
		}
		return nil
	}
	return ErrUpdateContention
}
