// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "weather-search:geocode:"

// Store persists geocoding results for a limited time.
type Store interface {
	Get(ctx context.Context, key string) ([]Place, bool, error)
	Set(ctx context.Context, key string, places []Place, ttl time.Duration) error
}

type memoryEntry struct {
	places []Place
	expiry time.Time
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	cache map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]Place, bool, error) {
	now := time.Now()
	m.mu.RLock()
	entry, ok := m.cache[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !now.Before(entry.expiry) {
		m.mu.Lock()
		// The entry may have been renewed in between
		if current, ok := m.cache[key]; ok && !now.Before(current.expiry) {
			delete(m.cache, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.places, true, nil
}

// Set stores places under key and drops every entry that has expired so far.
func (m *MemoryStore) Set(_ context.Context, key string, places []Place, ttl time.Duration) error {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, entry := range m.cache {
		if !now.Before(entry.expiry) {
			delete(m.cache, k)
		}
	}
	m.cache[key] = memoryEntry{places: places, expiry: now.Add(ttl)}
	return nil
}

// Len returns the number of entries currently held, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// RedisStore keeps JSON encoded entries in Redis and leaves expiry to the server.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis server at addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]Place, bool, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	var places []Place
	if err = json.Unmarshal(data, &places); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return places, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, places []Place, ttl time.Duration) error {
	if places == nil {
		places = []Place{}
	}
	data, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err = r.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
