package session

import (
	"context"
	"time"

	"github.com/kitbuilder587/breachsearch/internal/cache/memory"
)

type MemoryStore struct {
	cache *memory.Cache[string]
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: memory.New[string](), ttl: ttl}
}

func (s *MemoryStore) Create(ctx context.Context, userID string) (string, error) {
	token := newToken()
	s.cache.Set(token, userID, s.ttl)
	return token, nil
}

func (s *MemoryStore) Lookup(ctx context.Context, token string) (string, error) {
	if uid, ok := s.cache.Get(token); ok {
		return uid, nil
	}
	return "", ErrNotFound
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.cache.Delete(token)
	return nil
}

func (s *MemoryStore) Close() {
	s.cache.Stop()
}
