package verification

import (
	"context"
	"strings"

	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/logger"
)

// Revoke strips the full role catalog from the account and deletes its
// verification record, freeing the email fingerprint for re-use. Role removal
// is idempotent and best-effort; only a database failure fails the call.
func (s *Service) Revoke(ctx context.Context, discordID string) error {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return domain.ErrMissingField("discord_id")
	}

	result := s.roles.Revoke(ctx, discordID, s.catalog.All())
	if !result.AllOK() {
		logger.WithCtx(ctx).Warn().
			Str("discord_id", discordID).
			Interface("failed_roles", result.Failed()).
			Msg("partial role revoke failure; record deleted regardless")
	}

	if err := s.records.Delete(ctx, discordID); err != nil {
		return err
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifier.NotifyRevoked(ctx, discordID)
	})

	s.audit("verification_revoked", map[string]string{
		"discord_id": discordID,
	})
	return nil
}

// AdminGrant is the admin-initiated manual verification: it writes a record
// with method "admin" and grants roles without any code or email exchange.
// The fingerprint column gets a synthetic per-account value so the uniqueness
// constraint holds without an email on file.
func (s *Service) AdminGrant(ctx context.Context, discordID string, claim domain.Affiliation) error {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return domain.ErrMissingField("discord_id")
	}

	roleIDs := s.catalog.Resolve(claim)
	result := s.roles.Grant(ctx, discordID, roleIDs)
	if !result.AllOK() {
		logger.WithCtx(ctx).Warn().
			Str("discord_id", discordID).
			Interface("failed_roles", result.Failed()).
			Msg("partial role grant failure on admin grant")
	}

	rec := domain.VerificationRecord{
		DiscordID:        discordID,
		EmailFingerprint: "admin:" + discordID,
		Method:           domain.MethodAdmin,
		Type:             claim.Type(),
		VerifiedAt:       s.now(),
	}
	if err := s.records.Upsert(ctx, rec); err != nil {
		return err
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifier.NotifyVerified(ctx, discordID, domain.MethodAdmin)
	})

	s.audit("verification_admin_granted", map[string]string{
		"discord_id": discordID,
		"type":       claim.Type(),
	})
	return nil
}
