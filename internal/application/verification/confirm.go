package verification

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/logger"
)

// Confirm consumes a pending code and finalizes the verification.
// Role grants are best-effort: the record write is what makes an account
// verified, Discord-side role drift self-heals on a later confirm or manual
// admin action. The pending row is deleted only after the record is written,
// so a concurrent confirm losing the race observes code_not_found.
func (s *Service) Confirm(ctx context.Context, discordID, code string, claim domain.Affiliation, method domain.VerificationMethod) error {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return domain.ErrMissingField("discord_id")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrMissingField("code")
	}

	pending, err := s.pending.Get(ctx, discordID)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		return domain.ErrCodeNotFound()
	}
	if pending.Expired(s.now()) {
		// Row is left in place; a re-request overwrites it and the store's
		// TTL eventually purges it.
		return domain.ErrCodeExpired()
	}

	affiliation, err := reconcileClaim(pending.Category, claim)
	if err != nil {
		return err
	}

	roleIDs := s.catalog.Resolve(affiliation)
	result := s.roles.Grant(ctx, discordID, roleIDs)
	if !result.AllOK() {
		logger.WithCtx(ctx).Warn().
			Str("discord_id", discordID).
			Interface("failed_roles", result.Failed()).
			Msg("partial role grant failure; record still written")
	}

	rec := domain.VerificationRecord{
		DiscordID:        discordID,
		EmailFingerprint: pending.EmailFingerprint,
		Method:           method,
		Type:             affiliation.Type(),
		VerifiedAt:       s.now(),
	}
	if err := s.records.Upsert(ctx, rec); err != nil {
		return err
	}

	if err := s.pending.Delete(ctx, discordID); err != nil {
		// Not fatal: the row is dead weight at this point and expires anyway.
		logger.WithCtx(ctx).Warn().Err(err).
			Str("discord_id", discordID).
			Msg("failed to delete consumed pending code")
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifier.NotifyVerified(ctx, discordID, method)
	})

	s.audit("verification_confirmed", map[string]string{
		"discord_id": discordID,
		"type":       affiliation.Type(),
		"method":     string(method),
	})
	return nil
}
