package verification

import (
	"context"
	"strings"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// Status returns the account's verification record, or ErrRecordNotFound
// when the account has never verified.
func (s *Service) Status(ctx context.Context, discordID string) (domain.VerificationRecord, error) {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return domain.VerificationRecord{}, domain.ErrMissingField("discord_id")
	}
	return s.records.GetByAccount(ctx, discordID)
}
