// README: Session stores: Redis with TTL for deployments, memory for local runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"pabili/internal/types"
)

type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id types.ID) (*Session, error)
	Delete(ctx context.Context, id types.ID) error
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id types.ID) string {
	return "session:" + string(id)
}

// Save writes the session and restarts its TTL.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id types.ID) (*Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id types.ID) error {
	n, err := s.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Entries are copied on the way in
// and out so callers never share a *Session.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[types.ID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[types.ID]memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id types.ID) (*Session, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && s.expired(e) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	var sess Session
	if err := json.Unmarshal(e.data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		delete(s.entries, id)
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return s.ttl > 0 && !s.now().Before(e.expiresAt)
}
