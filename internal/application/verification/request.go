package verification

import (
	"context"
	"strings"

	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/logger"
)

// Request validates the email, issues a fresh code and emails it.
// A prior pending code for the same account is replaced and thereby
// invalidated. If the email send fails the pending row is deliberately kept
// (the user can simply re-request) and the failure is surfaced.
func (s *Service) Request(ctx context.Context, discordID, rawEmail string) error {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return domain.ErrMissingField("discord_id")
	}
	email := strings.ToLower(strings.TrimSpace(rawEmail))
	if email == "" {
		return domain.ErrMissingField("email")
	}

	category, err := s.matchDomain(email)
	if err != nil {
		return err
	}

	fingerprint := domain.FingerprintEmail(email)
	taken, err := s.records.ExistsByFingerprint(ctx, fingerprint)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailAlreadyVerified()
	}

	code, err := s.codes.Generate(category)
	if err != nil {
		return domain.ErrRandomFailed(err)
	}

	pending := domain.PendingVerification{
		DiscordID:        discordID,
		Code:             code,
		EmailFingerprint: fingerprint,
		Category:         category,
		ExpiresAt:        s.now().Add(s.codeTTL),
	}
	if err := s.pending.Upsert(ctx, pending); err != nil {
		return err
	}

	if err := s.email.SendVerificationCode(ctx, email, code, s.codeTTL); err != nil {
		logger.WithCtx(ctx).Error().Err(err).
			Str("discord_id", discordID).
			Msg("verification email send failed")
		return domain.ErrEmailDeliveryFailed(err)
	}

	s.audit("verification_requested", map[string]string{
		"discord_id":  discordID,
		"category":    string(category),
		"fingerprint": domain.TruncateFingerprint(fingerprint),
	})
	return nil
}
