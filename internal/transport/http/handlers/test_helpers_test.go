package http_handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brunoverifies/verification-service/internal/application/verification"
	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/infrastructure/memory"
	"github.com/brunoverifies/verification-service/internal/logger"
	"github.com/brunoverifies/verification-service/internal/transport/http/middleware"
	"github.com/brunoverifies/verification-service/internal/transport/http/response"
)

func init() { logger.Init() }

// -------------------------
// Test wiring (pure unit)
// -------------------------

type fakeCodes struct {
	code string
}

func (f *fakeCodes) Generate(category domain.CodeCategory) (string, error) {
	return f.code, nil
}

type fakeEmail struct {
	sent []string // recipients
}

func (f *fakeEmail) SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error {
	f.sent = append(f.sent, to)
	return nil
}

type fakeRoles struct {
	granted map[string][]domain.RoleID
	revoked map[string][]domain.RoleID
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		granted: make(map[string][]domain.RoleID),
		revoked: make(map[string][]domain.RoleID),
	}
}

func (f *fakeRoles) Grant(ctx context.Context, discordID string, roles []domain.RoleID) domain.PerRoleResult {
	f.granted[discordID] = append(f.granted[discordID], roles...)
	res := domain.PerRoleResult{}
	for _, r := range roles {
		res[r] = true
	}
	return res
}

func (f *fakeRoles) Revoke(ctx context.Context, discordID string, roles []domain.RoleID) domain.PerRoleResult {
	f.revoked[discordID] = append(f.revoked[discordID], roles...)
	res := domain.PerRoleResult{}
	for _, r := range roles {
		res[r] = true
	}
	return res
}

type fakeNotifier struct{}

func (fakeNotifier) NotifyVerified(ctx context.Context, discordID string, method domain.VerificationMethod) error {
	return nil
}
func (fakeNotifier) NotifyRevoked(ctx context.Context, discordID string) error { return nil }

type fakeDirectory struct {
	members map[string]verification.GuildMember
}

func (f *fakeDirectory) Member(ctx context.Context, discordID string) (verification.GuildMember, error) {
	if m, ok := f.members[discordID]; ok {
		return m, nil
	}
	return verification.GuildMember{}, domain.ErrRecordNotFound()
}

func (f *fakeDirectory) User(ctx context.Context, discordID string) (verification.GuildMember, error) {
	return verification.GuildMember{}, domain.ErrRecordNotFound()
}

func (f *fakeDirectory) ListMembers(ctx context.Context) ([]verification.GuildMember, error) {
	var out []verification.GuildMember
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

type testEnv struct {
	svc   *verification.Service
	email *fakeEmail
	roles *fakeRoles
	dir   *fakeDirectory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fe := &fakeEmail{}
	fr := newFakeRoles()
	fd := &fakeDirectory{members: map[string]verification.GuildMember{}}

	svc := verification.NewService(
		memory.NewPendingStore(),
		memory.NewRecordRepo(),
		&fakeCodes{code: "123456"},
		fe,
		fr,
		fakeNotifier{},
		fd,
		verification.Config{
			Catalog: domain.RoleCatalog{
				Accepted:   "role-accepted",
				Student:    "role-student",
				Alumni:     "role-alumni",
				ClassYears: map[string]domain.RoleID{"2027": "role-2027"},
			},
			VerifyDomain: "brown.edu",
			AlumniDomain: "alumni.brown.edu",
			CodeTTL:      10 * time.Minute,
		},
	)

	return &testEnv{svc: svc, email: fe, roles: fr, dir: fd}
}

// authedRequest builds a request carrying an already-authenticated identity,
// the way the auth middleware leaves it.
func authedRequest(t *testing.T, method, target, discordID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if discordID != "" {
		req = req.WithContext(middleware.WithDiscordID(req.Context(), discordID))
	}
	return req
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v, body=%q", err, rr.Body.String())
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v, body=%q", err, rr.Body.String())
	}
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v, body=%q", err, rr.Body.String())
	}
	return body
}
