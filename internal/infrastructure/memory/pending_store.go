package memory

import (
	"context"
	"sync"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// PendingStore is the in-memory fallback used when Redis is unreachable at
// boot. Rows are never evicted; expiry is judged by the caller.
type PendingStore struct {
	mu sync.RWMutex
	// discord id -> pending row
	data map[string]domain.PendingVerification
}

func NewPendingStore() *PendingStore {
	return &PendingStore{data: make(map[string]domain.PendingVerification)}
}

func (s *PendingStore) Upsert(ctx context.Context, p domain.PendingVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[p.DiscordID] = p
	return nil
}

func (s *PendingStore) Get(ctx context.Context, discordID string) (domain.PendingVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[discordID]
	if !ok {
		return domain.PendingVerification{}, domain.ErrCodeNotFound()
	}
	return p, nil
}

func (s *PendingStore) Delete(ctx context.Context, discordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, discordID)
	return nil
}
