// Package storage provides the Redis-backed session archive.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"rarorac-lab/internal/scenario"
)

const DefaultKeyPrefix = "rarorac:session:"

// RedisArchive stores each session's scenarios as one JSON document.
type RedisArchive struct {
	client  redis.Cmdable
	prefix  string
	breaker *Breaker
}

func NewRedisArchive(client redis.Cmdable, log zerolog.Logger) *RedisArchive {
	return &RedisArchive{
		client:  client,
		prefix:  DefaultKeyPrefix,
		breaker: NewBreaker("redis-archive", log),
	}
}

// NewRedisClient opens a client for addr and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (a *RedisArchive) Key(id string) string { return a.prefix + id }

func (a *RedisArchive) Save(ctx context.Context, id string, scenarios []scenario.Scenario, ttl time.Duration) error {
	if scenarios == nil {
		scenarios = []scenario.Scenario{}
	}
	data, err := json.Marshal(scenarios)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	_, err = a.breaker.Execute(func() (any, error) {
		return nil, a.client.Set(ctx, a.Key(id), string(data), ttl).Err()
	})
	return err
}

func (a *RedisArchive) Load(ctx context.Context, id string) ([]scenario.Scenario, bool, error) {
	v, err := a.breaker.Execute(func() (any, error) {
		s, err := a.client.Get(ctx, a.Key(id)).Result()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return nil, false, err
	}
	raw, ok := v.(string)
	if !ok {
		return nil, false, nil
	}
	var scenarios []scenario.Scenario
	if err := json.Unmarshal([]byte(raw), &scenarios); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return scenarios, true, nil
}

func (a *RedisArchive) Delete(ctx context.Context, id string) (bool, error) {
	v, err := a.breaker.Execute(func() (any, error) {
		return a.client.Del(ctx, a.Key(id)).Result()
	})
	if err != nil {
		return false, err
	}
	n, _ := v.(int64)
	return n > 0, nil
}
