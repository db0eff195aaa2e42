package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// RecordRepo is the in-memory fallback for local development without
// Postgres. Same semantics as the SQL repo, nothing survives a restart.
type RecordRepo struct {
	mu   sync.RWMutex
	data map[string]domain.VerificationRecord
}

func NewRecordRepo() *RecordRepo {
	return &RecordRepo{data: make(map[string]domain.VerificationRecord)}
}

func (r *RecordRepo) Upsert(ctx context.Context, rec domain.VerificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rec.DiscordID] = rec
	return nil
}

func (r *RecordRepo) GetByAccount(ctx context.Context, discordID string) (domain.VerificationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.data[discordID]
	if !ok {
		return domain.VerificationRecord{}, domain.ErrRecordNotFound()
	}
	return rec, nil
}

func (r *RecordRepo) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.data {
		if rec.EmailFingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (r *RecordRepo) Delete(ctx context.Context, discordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, discordID)
	return nil
}

func (r *RecordRepo) List(ctx context.Context) ([]domain.VerificationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.VerificationRecord, 0, len(r.data))
	for _, rec := range r.data {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].VerifiedAt.Equal(out[j].VerifiedAt) {
			return out[i].VerifiedAt.After(out[j].VerifiedAt)
		}
		return out[i].DiscordID < out[j].DiscordID
	})
	return out, nil
}
