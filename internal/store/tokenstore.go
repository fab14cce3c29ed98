// Package store provides a small keyed token store used by the cookie-based
// compatibility endpoints (CSRF tokens). The interface exists so a single
// process can use the in-memory store while multi-instance deployments plug
// in Redis.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore holds short-lived opaque tokens with a TTL.
type TokenStore interface {
	Put(ctx context.Context, token string, ttl time.Duration) error
	// Check reports whether the token exists and is unexpired.
	Check(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

// MemoryStore is a process-local TokenStore. Expired entries are pruned
// lazily on access.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]time.Time)}
}

func (s *MemoryStore) Put(ctx context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) Check(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.tokens[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		delete(s.tokens, token)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

// RedisStore backs the TokenStore with Redis so every instance sees the same
// tokens.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "csrf:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Put(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+token, "valid", ttl).Err()
}

func (s *RedisStore) Check(ctx context.Context, token string) (bool, error) {
	_, err := s.client.Get(ctx, s.prefix+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.prefix+token).Err()
}
