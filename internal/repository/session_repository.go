package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// MemorySessionStore keeps booking sessions in process memory.  Sessions
// idle for longer than the TTL are treated as missing and swept lazily.
type MemorySessionStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memorySession
}

type memorySession struct {
	s       model.Session
	expires time.Time
}

// NewMemorySessionStore returns a store whose sessions expire ttl after
// their last save.  A non-positive ttl disables expiry.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, now: time.Now, items: map[string]memorySession{}}
}

// Get returns a copy of the session or ErrSessionNotFound.
func (m *MemorySessionStore) Get(ctx context.Context, id string) (model.Session, error) {
	m.mu.RLock()
	item, ok := m.items[id]
	m.mu.RUnlock()
	if !ok || m.expired(item) {
		return model.Session{}, ErrSessionNotFound
	}
	return cloneSession(item.s), nil
}

// Save stores a copy of s and refreshes its expiry.
func (m *MemorySessionStore) Save(ctx context.Context, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, item := range m.items {
		if m.expired(item) {
			delete(m.items, id)
		}
	}
	m.items[s.ID] = memorySession{s: cloneSession(s), expires: m.now().Add(m.ttl)}
	return nil
}

// Delete removes the session.  Deleting a missing session is not an error.
func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *MemorySessionStore) expired(item memorySession) bool {
	return m.ttl > 0 && !m.now().Before(item.expires)
}

// cloneSession deep-copies the pointer fields so callers never share
// state with the store.
func cloneSession(s model.Session) model.Session {
	if s.Reservation != nil {
		r := *s.Reservation
		s.Reservation = &r
	}
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if s.Cancellation != nil {
		c := *s.Cancellation
		s.Cancellation = &c
	}
	return s
}

// RedisSessionStore keeps booking sessions in Redis as JSON values under
// "<prefix>:<id>", expiring ttl after their last save.
type RedisSessionStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisSessionStore returns a Redis backed store.  prefix defaults to
// "session".
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisSessionStore{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (r *RedisSessionStore) key(id string) string { return r.prefix + ":" + id }

// Get loads and decodes the session or returns ErrSessionNotFound.
func (r *RedisSessionStore) Get(ctx context.Context, id string) (model.Session, error) {
	bs, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, fmt.Errorf("redis get session: %w", err)
	}
	var s model.Session
	if err := json.Unmarshal(bs, &s); err != nil {
		return model.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// Save encodes the session and writes it with the store TTL.
func (r *RedisSessionStore) Save(ctx context.Context, s model.Session) error {
	bs, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(s.ID), bs, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Delete removes the session key.
func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, r.key(id)).Err()
}
