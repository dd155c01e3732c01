package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "portfolio:"
	// redisUpdateRetries bounds optimistic retries when another process
	// writes the same key mid-update.
	redisUpdateRetries = 10
)

// Redis keeps keys as plain strings under the portfolio: prefix.
type Redis struct {
	client *redis.Client
	locks  *keyedMutex
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, locks: newKeyedMutex()}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", failure("get", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return failure("set", key, err)
	}
	return nil
}

// Update is an optimistic WATCH/MULTI transaction on key, retried when a
// writer outside this process got in first.
func (r *Redis) Update(ctx context.Context, key string, fn UpdateFunc) error {
	unlock := r.locks.lock(key)
	defer unlock()

	full := redisKeyPrefix + key
	var fnErr error
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, full).Result()
		found := true
		if err == redis.Nil {
			current, found = "", false
		} else if err != nil {
			return err
		}
		next, err := fn(current, found)
		if err != nil {
			fnErr = err
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, full, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < redisUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, full)
		switch {
		case err == nil:
			return nil
		case fnErr != nil:
			return fnErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return failure("update", key, err)
		}
	}
	return failure("update", key, redis.TxFailedErr)
}

// Ping checks the connection at startup.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrFailure, err)
	}
	return nil
}
