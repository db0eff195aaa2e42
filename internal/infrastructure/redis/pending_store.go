package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// ttlSlack keeps the row around past logical expiry so a late confirm gets a
// precise code_expired instead of code_not_found. Expiry itself is judged by
// the service against expires_at, not by the key TTL.
const ttlSlack = time.Hour

type PendingStore struct {
	rdb    *goredis.Client
	prefix string // "pending:"
}

func NewPendingStore(c *Client) *PendingStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &PendingStore{
		rdb:    rdb,
		prefix: "pending:",
	}
}

func (s *PendingStore) Upsert(ctx context.Context, p domain.PendingVerification) error {
	if strings.TrimSpace(p.DiscordID) == "" {
		return domain.ErrMissingField("discord_id")
	}
	if s.rdb == nil {
		return domain.ErrRedisUnavailable(errors.New("pending store not configured"))
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return domain.ErrInternal(err)
	}

	ttl := time.Until(p.ExpiresAt) + ttlSlack
	if ttl <= 0 {
		ttl = ttlSlack
	}

	// overwrite is fine (a new request invalidates the old code anyway)
	if err := s.rdb.Set(ctx, s.key(p.DiscordID), payload, ttl).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (s *PendingStore) Get(ctx context.Context, discordID string) (domain.PendingVerification, error) {
	if strings.TrimSpace(discordID) == "" {
		return domain.PendingVerification{}, domain.ErrMissingField("discord_id")
	}
	if s.rdb == nil {
		return domain.PendingVerification{}, domain.ErrRedisUnavailable(errors.New("pending store not configured"))
	}

	raw, err := s.rdb.Get(ctx, s.key(discordID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.PendingVerification{}, domain.ErrCodeNotFound()
		}
		return domain.PendingVerification{}, domain.ErrRedisUnavailable(err)
	}

	var p domain.PendingVerification
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.PendingVerification{}, domain.ErrInternal(err)
	}
	return p, nil
}

func (s *PendingStore) Delete(ctx context.Context, discordID string) error {
	if strings.TrimSpace(discordID) == "" {
		return domain.ErrMissingField("discord_id")
	}
	if s.rdb == nil {
		return domain.ErrRedisUnavailable(errors.New("pending store not configured"))
	}

	if err := s.rdb.Del(ctx, s.key(discordID)).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (s *PendingStore) key(discordID string) string {
	return s.prefix + discordID
}
