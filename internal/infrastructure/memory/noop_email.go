package memory

import (
	"context"
	"time"

	"github.com/brunoverifies/verification-service/internal/logger"
)

// NoopEmailSender is the dev fallback when SMTP credentials are absent.
// It logs the code instead of delivering it so the flow stays testable.
type NoopEmailSender struct{}

func NewNoopEmailSender() *NoopEmailSender {
	return &NoopEmailSender{}
}

func (NoopEmailSender) SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error {
	logger.WithCtx(ctx).Warn().
		Str("code", code).
		Dur("ttl", ttl).
		Msg("email delivery disabled; code logged instead")
	return nil
}
