package email

import (
	"context"
	"time"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// SenderConfig carries provider settings plus the envelope identity.
type SenderConfig struct {
	SMTP     SMTPConfig
	From     string
	FromName string
	Links    TemplateLinks
}

// Sender renders and delivers verification-code emails through the
// configured provider, guarded by a circuit breaker.
type Sender struct {
	provider       Provider
	from           string
	fromName       string
	links          TemplateLinks
	circuitBreaker *CircuitBreaker
}

func NewSender(cfg SenderConfig) (*Sender, error) {
	provider, err := NewSMTPProvider(cfg.SMTP)
	if err != nil {
		return nil, err
	}
	s := newSenderWithProvider(provider, cfg.From, cfg.FromName)
	s.links = cfg.Links
	return s, nil
}

func newSenderWithProvider(p Provider, from, fromName string) *Sender {
	// 5 failures before opening, 30s reset timeout, 2 calls in half-open
	return &Sender{
		provider:       p,
		from:           from,
		fromName:       fromName,
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second, 2),
	}
}

// SendVerificationCode implements verification.EmailSender.
func (s *Sender) SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error {
	body, err := RenderCodeTemplate(code, ttl, s.links)
	if err != nil {
		return domain.ErrInternal(err)
	}

	msg := &Message{
		To:       to,
		Subject:  "Your Discord verification code",
		Body:     body,
		From:     s.from,
		FromName: s.fromName,
	}

	return s.circuitBreaker.Call(ctx, func() error {
		return s.provider.SendEmail(ctx, msg)
	})
}

// ProviderName returns the name of the email provider
func (s *Sender) ProviderName() string {
	if s.provider == nil {
		return "unknown"
	}
	return s.provider.Name()
}
