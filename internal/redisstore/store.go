// Package redisstore provides a Redis-backed session space for edit handoffs.
// Every key is written with a TTL so a handoff never outlives the session it
// was meant for.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jwulff/storybuilder/internal/kv"
)

var (
	_ kv.Storage = (*Store)(nil)
	_ kv.Taker   = (*Store)(nil)
)

// Store is a kv.Storage over Redis with a fixed key prefix and TTL.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// Open parses url, connects and pings Redis.
func Open(ctx context.Context, url, prefix string, ttl time.Duration, logger *zap.Logger) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, prefix, ttl, logger), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.Named("RedisSessionStore"),
	}
}

// Close closes the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, kv.ErrNotConfigured
	}
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("Failed to get key from redis", zap.Error(err), zap.String("key", key))
		return "", false, fmt.Errorf("get %q from redis: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with the store's TTL.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s == nil || s.client == nil {
		return kv.ErrNotConfigured
	}
	s.logger.Debug("Setting key in redis", zap.String("key", key), zap.Duration("ttl", s.ttl))
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to set key in redis", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("set %q in redis: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return kv.ErrNotConfigured
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		s.logger.Error("Failed to delete key from redis", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("delete %q from redis: %w", key, err)
	}
	return nil
}

// Take reads and deletes key with GETDEL.
func (s *Store) Take(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, kv.ErrNotConfigured
	}
	value, err := s.client.GetDel(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		s.logger.Debug("Key not found in redis", zap.String("key", key))
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("Failed to take key from redis", zap.Error(err), zap.String("key", key))
		return "", false, fmt.Errorf("take %q from redis: %w", key, err)
	}
	return value, true, nil
}
