/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBlobs stores each blob as a plain redis string.
type RedisBlobs struct {
	client *redis.Client
}

// OpenRedisBlobs connects to url (redis://host:port/db) and pings it.
func OpenRedisBlobs(ctx context.Context, url string) (*RedisBlobs, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("store.openredis: parse %v: %w", url, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store.openredis: ping %v: %w", opts.Addr, err)
	}

	return NewRedisBlobs(client), nil
}

func NewRedisBlobs(client *redis.Client) *RedisBlobs {
	return &RedisBlobs{client: client}
}

func (rb *RedisBlobs) Close() error {
	return rb.client.Close()
}

func (rb *RedisBlobs) Get(ctx context.Context, key string) ([]byte, bool,
	error) {

	data, err := rb.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store.get: redis %v: %w", key, err)
	}
	return data, true, nil
}

func (rb *RedisBlobs) Put(ctx context.Context, key string, data []byte) error {
	if err := rb.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("store.put: redis %v: %w", key, err)
	}
	return nil
}

func (rb *RedisBlobs) Delete(ctx context.Context, key string) error {
	if err := rb.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("store.delete: redis %v: %w", key, err)
	}
	return nil
}
