package verification

import (
	"context"
	"strings"
	"time"

	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/logger"
)

type Service struct {
	pending   PendingStore
	records   RecordRepo
	codes     CodeGenerator
	email     EmailSender
	roles     RoleGateway
	notifier  AuditNotifier
	directory MemberDirectory

	catalog      domain.RoleCatalog
	verifyDomain string // e.g. "brown.edu"
	alumniDomain string // e.g. "alumni.brown.edu"
	codeTTL      time.Duration

	now   func() time.Time
	audit func(action string, fields map[string]string)

	// notifyTimeout bounds the detached audit goroutine.
	notifyTimeout time.Duration
}

type Config struct {
	Catalog      domain.RoleCatalog
	VerifyDomain string
	AlumniDomain string
	CodeTTL      time.Duration
}

func NewService(
	pending PendingStore,
	records RecordRepo,
	codes CodeGenerator,
	email EmailSender,
	roles RoleGateway,
	notifier AuditNotifier,
	directory MemberDirectory,
	cfg Config,
) *Service {
	ttl := cfg.CodeTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		pending:   pending,
		records:   records,
		codes:     codes,
		email:     email,
		roles:     roles,
		notifier:  notifier,
		directory: directory,

		catalog:      cfg.Catalog,
		verifyDomain: strings.ToLower(strings.TrimSpace(cfg.VerifyDomain)),
		alumniDomain: strings.ToLower(strings.TrimSpace(cfg.AlumniDomain)),
		codeTTL:      ttl,

		now:           time.Now,
		audit:         func(string, map[string]string) {},
		notifyTimeout: 5 * time.Second,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// matchDomain validates the email suffix against the allowed institutional
// domains and reports which category matched. The alumni domain is checked
// first since it is itself a subdomain of the primary.
func (s *Service) matchDomain(email string) (domain.CodeCategory, error) {
	if strings.HasSuffix(email, "@"+s.alumniDomain) {
		return domain.CategoryAlumni, nil
	}
	if strings.HasSuffix(email, "@"+s.verifyDomain) {
		return domain.CategoryStandard, nil
	}
	return "", domain.ErrInvalidDomain("@" + s.verifyDomain)
}

// reconcileClaim pins the caller-asserted affiliation to the domain category
// validated at request time. The category was proven by email ownership; the
// claim is not allowed to widen it.
//   - alumni address: every claim collapses to alumni
//   - standard address: an alumni claim is rejected, class-year/none pass through
func reconcileClaim(category domain.CodeCategory, claim domain.Affiliation) (domain.Affiliation, error) {
	if category == domain.CategoryAlumni {
		return domain.Alumni(), nil
	}
	if claim.Kind == domain.AffiliationAlumni {
		return domain.Affiliation{}, domain.ErrAffiliationMismatch()
	}
	return claim, nil
}

// notifyAsync runs a best-effort notification off the caller's success path.
func (s *Service) notifyAsync(fn func(ctx context.Context) error) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("audit notification failed")
		}
	}()
}
