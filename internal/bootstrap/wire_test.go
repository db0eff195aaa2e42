package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/brunoverifies/verification-service/internal/application/verification"
	"github.com/brunoverifies/verification-service/internal/config"
	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/infrastructure/email"
	"github.com/brunoverifies/verification-service/internal/logger"
	"github.com/brunoverifies/verification-service/internal/transport/http/router"
)

func init() { logger.Init() }

// ---------- fakes ----------

type fakeRedis struct {
	pingErr error
	closed  bool
}

func (f *fakeRedis) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeRedis) Close() error                   { f.closed = true; return nil }

type fakeSender struct{}

func (fakeSender) SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error {
	return nil
}

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:              env,
		HTTPAddr:         ":0",
		HTTPReadTimeout:  10 * time.Second,
		HTTPWriteTimeout: 30 * time.Second,
		HTTPIdleTimeout:  time.Minute,
		JWTSecret:        "test-secret",
		JWTIssuer:        "verification-service",
		InternalSecret:   "internal-secret",
		DBAddr:           "postgres://localhost:5432/verify",
		RedisAddr:        "localhost:6379",
		VerifyDomain:     "brown.edu",
		AlumniDomain:     "alumni.brown.edu",
		CodeTTL:          10 * time.Minute,
		DiscordBotToken:  "bot-token",
		DiscordGuildID:   "guild-1",
		DiscordAPIBase:   "http://127.0.0.1:0",
		AdminDiscordID:   "admin-1",
		RoleCatalog: domain.RoleCatalog{
			Accepted: "role-accepted",
			Student:  "role-student",
			Alumni:   "role-alumni",
		},
	}
}

func newMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS verifications").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()
	return db
}

func testDeps(t *testing.T, cfg *config.Config, rc RedisClient) Deps {
	t.Helper()
	return Deps{
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
		NewDB: func(addr string, debug bool) (*sql.DB, error) {
			return newMockDB(t), nil
		},
		NewRedis: func(addr, password string, db int) RedisClient { return rc },
		NewEmailSender: func(c email.SenderConfig) (verification.EmailSender, error) {
			return fakeSender{}, nil
		},
		NewRouter: func(d router.Deps) (http.Handler, error) { return router.New(d) },
	}
}

// ---------- tests ----------

func TestNewServer_ConfigLoadFails(t *testing.T) {
	deps := testDeps(t, nil, &fakeRedis{})
	deps.LoadConfig = func() (*config.Config, error) {
		return nil, errors.New("missing env")
	}

	srv, cleanup, err := NewServerWithDeps(deps)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if srv != nil {
		t.Fatalf("expected server=nil")
	}
	if cleanup != nil {
		t.Fatalf("expected cleanup=nil")
	}
}

func TestNewServer_DBConnectFails(t *testing.T) {
	deps := testDeps(t, testConfig("dev"), &fakeRedis{})
	deps.NewDB = func(addr string, debug bool) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	}

	srv, cleanup, err := NewServerWithDeps(deps)
	if err == nil {
		t.Fatalf("expected db connect error")
	}
	if srv != nil || cleanup != nil {
		t.Fatalf("expected nil server and cleanup")
	}
}

func TestNewServer_SchemaFails(t *testing.T) {
	deps := testDeps(t, testConfig("dev"), &fakeRedis{})
	deps.NewDB = func(addr string, debug bool) (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		if err != nil {
			t.Fatalf("sqlmock: %v", err)
		}
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS verifications").
			WillReturnError(errors.New("permission denied"))
		mock.ExpectClose()
		return db, nil
	}

	_, _, err := NewServerWithDeps(deps)
	if err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestNewServer_RedisUnavailable_FallbackMemory(t *testing.T) {
	rc := &fakeRedis{pingErr: errors.New("dial refused")}

	srv, cleanup, err := NewServerWithDeps(testDeps(t, testConfig("dev"), rc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv == nil || cleanup == nil {
		t.Fatalf("expected server and cleanup")
	}
	if !rc.closed {
		t.Fatalf("expected failed redis client to be closed")
	}
	cleanup()
}

func TestNewServer_EmailUnavailable_Dev_Allows(t *testing.T) {
	deps := testDeps(t, testConfig("dev"), &fakeRedis{pingErr: errors.New("down")})
	deps.NewEmailSender = func(c email.SenderConfig) (verification.EmailSender, error) {
		return nil, errors.New("smtp credentials missing")
	}

	srv, cleanup, err := NewServerWithDeps(deps)
	if err != nil {
		t.Fatalf("unexpected error in dev: %v", err)
	}
	if srv == nil || cleanup == nil {
		t.Fatalf("expected server and cleanup")
	}
	cleanup()
}

func TestNewServer_EmailUnavailable_Prod_Fails(t *testing.T) {
	deps := testDeps(t, testConfig("prod"), &fakeRedis{pingErr: errors.New("down")})
	deps.NewEmailSender = func(c email.SenderConfig) (verification.EmailSender, error) {
		return nil, errors.New("smtp credentials missing")
	}

	srv, cleanup, err := NewServerWithDeps(deps)
	if err == nil {
		t.Fatalf("expected error in prod when email sender unavailable")
	}
	if srv != nil || cleanup != nil {
		t.Fatalf("expected nil server and cleanup")
	}
}

func TestNewServer_RouterFails_RunsCleanup(t *testing.T) {
	deps := testDeps(t, testConfig("dev"), &fakeRedis{pingErr: errors.New("down")})
	deps.NewRouter = func(d router.Deps) (http.Handler, error) {
		return nil, errors.New("bad wiring")
	}

	srv, cleanup, err := NewServerWithDeps(deps)
	if err == nil {
		t.Fatalf("expected router error")
	}
	if srv != nil || cleanup != nil {
		t.Fatalf("expected nil server and cleanup")
	}
}

func TestNewServer_ServerConfig(t *testing.T) {
	cfg := testConfig("dev")
	cfg.HTTPAddr = ":9099"

	srv, cleanup, err := NewServerWithDeps(testDeps(t, cfg, &fakeRedis{pingErr: errors.New("down")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if srv.Addr != ":9099" {
		t.Fatalf("expected addr :9099, got %s", srv.Addr)
	}
	if srv.ReadTimeout != cfg.HTTPReadTimeout {
		t.Fatalf("read timeout not applied")
	}
	if srv.Handler == nil {
		t.Fatalf("expected handler")
	}
}

func TestNewServer_Cleanup_Idempotent(t *testing.T) {
	srv, cleanup, err := NewServerWithDeps(testDeps(t, testConfig("dev"), &fakeRedis{pingErr: errors.New("down")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = srv.Shutdown(ctx)

	cleanup()
	cleanup()
}
