package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/logger"
)

func init() {
	logger.Init()
}

/*
Fakes for ports
*/

type fakePendingStore struct {
	mu   sync.Mutex
	rows map[string]domain.PendingVerification

	upsertErr error
	getErr    error
	deleteErr error

	deleted []string
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{rows: map[string]domain.PendingVerification{}}
}

func (f *fakePendingStore) Upsert(ctx context.Context, p domain.PendingVerification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[p.DiscordID] = p
	return nil
}

func (f *fakePendingStore) Get(ctx context.Context, discordID string) (domain.PendingVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.PendingVerification{}, f.getErr
	}
	p, ok := f.rows[discordID]
	if !ok {
		return domain.PendingVerification{}, domain.ErrCodeNotFound()
	}
	return p, nil
}

func (f *fakePendingStore) Delete(ctx context.Context, discordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, discordID)
	f.deleted = append(f.deleted, discordID)
	return nil
}

type fakeRecordRepo struct {
	mu   sync.Mutex
	rows map[string]domain.VerificationRecord

	upsertErr error
	existsErr error
	listErr   error
	deleteErr error
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{rows: map[string]domain.VerificationRecord{}}
}

func (f *fakeRecordRepo) Upsert(ctx context.Context, rec domain.VerificationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[rec.DiscordID] = rec
	return nil
}

func (f *fakeRecordRepo) GetByAccount(ctx context.Context, discordID string) (domain.VerificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.rows[discordID]
	if !ok {
		return domain.VerificationRecord{}, domain.ErrRecordNotFound()
	}
	return rec, nil
}

func (f *fakeRecordRepo) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, rec := range f.rows {
		if rec.EmailFingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecordRepo) Delete(ctx context.Context, discordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, discordID)
	return nil
}

func (f *fakeRecordRepo) List(ctx context.Context) ([]domain.VerificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.VerificationRecord, 0, len(f.rows))
	for _, rec := range f.rows {
		out = append(out, rec)
	}
	return out, nil
}

type fakeCodeGen struct {
	mu    sync.Mutex
	next  int
	err   error
	codes []string // generated codes in order
}

func (f *fakeCodeGen) Generate(category domain.CodeCategory) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	base := 100000
	if category == domain.CategoryAlumni {
		base = 550000
	}
	code := fmt.Sprintf("%06d", base+f.next)
	f.next++
	f.codes = append(f.codes, code)
	return code, nil
}

type sentEmail struct {
	to   string
	code string
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, code: code})
	return nil
}

type roleCall struct {
	discordID string
	roles     []domain.RoleID
}

type fakeRoleGateway struct {
	mu      sync.Mutex
	grants  []roleCall
	revokes []roleCall
	// failRoles marks role ids whose calls should report failure.
	failRoles map[domain.RoleID]bool
}

func newFakeRoleGateway() *fakeRoleGateway {
	return &fakeRoleGateway{failRoles: map[domain.RoleID]bool{}}
}

func (f *fakeRoleGateway) result(roles []domain.RoleID) domain.PerRoleResult {
	res := domain.PerRoleResult{}
	for _, r := range roles {
		res[r] = !f.failRoles[r]
	}
	return res
}

func (f *fakeRoleGateway) Grant(ctx context.Context, discordID string, roles []domain.RoleID) domain.PerRoleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants = append(f.grants, roleCall{discordID: discordID, roles: roles})
	return f.result(roles)
}

func (f *fakeRoleGateway) Revoke(ctx context.Context, discordID string, roles []domain.RoleID) domain.PerRoleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revokes = append(f.revokes, roleCall{discordID: discordID, roles: roles})
	return f.result(roles)
}

type fakeNotifier struct {
	mu       sync.Mutex
	verified []string
	revoked  []string
	err      error
	done     chan struct{} // closed-ish signal: one tick per notification
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 16)}
}

func (f *fakeNotifier) NotifyVerified(ctx context.Context, discordID string, method domain.VerificationMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, discordID)
	f.done <- struct{}{}
	return f.err
}

func (f *fakeNotifier) NotifyRevoked(ctx context.Context, discordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, discordID)
	f.done <- struct{}{}
	return f.err
}

// wait blocks until one notification lands (they run on detached goroutines).
func (f *fakeNotifier) wait(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for audit notification")
	}
}

type fakeDirectory struct {
	mu        sync.Mutex
	members   map[string]GuildMember
	users     map[string]GuildMember
	listErr   error
	memberErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		members: map[string]GuildMember{},
		users:   map[string]GuildMember{},
	}
}

func (f *fakeDirectory) Member(ctx context.Context, discordID string) (GuildMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.memberErr != nil {
		return GuildMember{}, f.memberErr
	}
	m, ok := f.members[discordID]
	if !ok {
		return GuildMember{}, errors.New("member not found")
	}
	return m, nil
}

func (f *fakeDirectory) User(ctx context.Context, discordID string) (GuildMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[discordID]
	if !ok {
		return GuildMember{}, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeDirectory) ListMembers(ctx context.Context) ([]GuildMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]GuildMember, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

/*
Service construction
*/

func testServiceCatalog() domain.RoleCatalog {
	return domain.RoleCatalog{
		Accepted: "role-accepted",
		Student:  "role-student",
		Alumni:   "role-alumni",
		ClassYears: map[string]domain.RoleID{
			"2026": "role-2026",
			"2027": "role-2027",
		},
	}
}

type testDeps struct {
	pending   *fakePendingStore
	records   *fakeRecordRepo
	codes     *fakeCodeGen
	email     *fakeEmailSender
	roles     *fakeRoleGateway
	notifier  *fakeNotifier
	directory *fakeDirectory
}

func newSvcForTest(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	d := &testDeps{
		pending:   newFakePendingStore(),
		records:   newFakeRecordRepo(),
		codes:     &fakeCodeGen{},
		email:     &fakeEmailSender{},
		roles:     newFakeRoleGateway(),
		notifier:  newFakeNotifier(),
		directory: newFakeDirectory(),
	}
	svc := NewService(d.pending, d.records, d.codes, d.email, d.roles, d.notifier, d.directory, Config{
		Catalog:      testServiceCatalog(),
		VerifyDomain: "brown.edu",
		AlumniDomain: "alumni.brown.edu",
		CodeTTL:      10 * time.Minute,
	})
	return svc, d
}

/*
Assertion helpers
*/

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected domain error %q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected domain error %q, got %v", code, err)
	}
}
