package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshStore remembers the one valid refresh JTI per user.
type RefreshStore interface {
	SetCurrent(userID uint, jti string, ttl time.Duration) error
	Current(userID uint) (string, bool)
	Clear(userID uint) error
}

// RedisRefreshStore keeps refresh JTIs in Redis so rotation survives
// restarts and is shared across instances.
type RedisRefreshStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisRefreshStore(rdb *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb, ctx: context.Background()}
}

func (s *RedisRefreshStore) key(userID uint) string {
	return fmt.Sprintf("nexus:auth:refresh:%d", userID)
}

func (s *RedisRefreshStore) SetCurrent(userID uint, jti string, ttl time.Duration) error {
	return s.rdb.Set(s.ctx, s.key(userID), jti, ttl).Err()
}

func (s *RedisRefreshStore) Current(userID uint) (string, bool) {
	val, err := s.rdb.Get(s.ctx, s.key(userID)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *RedisRefreshStore) Clear(userID uint) error {
	return s.rdb.Del(s.ctx, s.key(userID)).Err()
}

// MemoryRefreshStore is the in-process fallback used in development and
// tests. Expiry is enforced lazily on read.
type MemoryRefreshStore struct {
	mu      sync.Mutex
	entries map[uint]memoryEntry
}

type memoryEntry struct {
	jti      string
	expireAt time.Time
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{entries: map[uint]memoryEntry{}}
}

func (s *MemoryRefreshStore) SetCurrent(userID uint, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = memoryEntry{jti: jti, expireAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Current(userID uint) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || time.Now().After(e.expireAt) {
		delete(s.entries, userID)
		return "", false
	}
	return e.jti, true
}

func (s *MemoryRefreshStore) Clear(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}
