package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/brunoverifies/verification-service/internal/application/verification"
	"github.com/brunoverifies/verification-service/internal/config"
	"github.com/brunoverifies/verification-service/internal/infrastructure/db/postgres"
	"github.com/brunoverifies/verification-service/internal/infrastructure/discord"
	"github.com/brunoverifies/verification-service/internal/infrastructure/email"
	"github.com/brunoverifies/verification-service/internal/infrastructure/memory"
	"github.com/brunoverifies/verification-service/internal/infrastructure/redis"
	"github.com/brunoverifies/verification-service/internal/infrastructure/security"
	"github.com/brunoverifies/verification-service/internal/logger"
	http_handlers "github.com/brunoverifies/verification-service/internal/transport/http/handlers"
	"github.com/brunoverifies/verification-service/internal/transport/http/middleware"
	"github.com/brunoverifies/verification-service/internal/transport/http/response"
	"github.com/brunoverifies/verification-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewEmailSender func(cfg email.SenderConfig) (verification.EmailSender, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr, cfg.Env == "dev")
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelSchema()
	if err := postgres.EnsureSchema(schemaCtx, db); err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	recordRepo := postgres.NewVerificationRepo(db)

	// 2) redis (best-effort); memory fallback keeps the flow alive in dev,
	// at the cost of codes not surviving a restart
	var redisCli RedisClient
	if deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, "", 0)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-memory pending store")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	var pendingStore verification.PendingStore
	if rc, ok := redisCli.(*redis.Client); ok {
		pendingStore = redis.NewPendingStore(rc)
	} else {
		pendingStore = memory.NewPendingStore()
	}

	// 3) email
	sender, err := deps.NewEmailSender(email.SenderConfig{
		SMTP: email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		},
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		Links: email.TemplateLinks{
			TermsURL:   cfg.TermsURL,
			PrivacyURL: cfg.PrivacyURL,
		},
	})
	if err != nil {
		if cfg.Env == "dev" {
			logger.Logger.Warn().Err(err).Msg("email sender unavailable; codes will be logged")
			sender = memory.NewNoopEmailSender()
		} else {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 4) discord
	discordCli := discord.NewClient(cfg.DiscordAPIBase, cfg.DiscordBotToken, cfg.DiscordGuildID)
	roleGateway := discord.NewRoleGateway(discordCli)
	directory := discord.NewDirectory(discordCli)
	notifier := discord.NewWebhookNotifier(cfg.AuditWebhookURL)

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt verifier")
	verifier := security.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	codegen := security.NewCodeGenerator()

	// 6) service
	svc := verification.NewService(
		pendingStore,
		recordRepo,
		codegen,
		sender,
		roleGateway,
		notifier,
		directory,
		verification.Config{
			Catalog:      cfg.RoleCatalog,
			VerifyDomain: cfg.VerifyDomain,
			AlumniDomain: cfg.AlumniDomain,
			CodeTTL:      cfg.CodeTTL,
		},
	)

	svc = svc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 7) handlers + middleware
	verifyH := http_handlers.NewVerifyHandler(svc, cfg.CodeTTL)
	internalH := http_handlers.NewInternalHandler(svc, cfg.VerifyDomain, cfg.CodeTTL)
	adminH := http_handlers.NewAdminHandler(svc)
	healthH := http_handlers.NewHealthHandler(db)

	authMW := middleware.Auth(verifier, response.WriteError)
	adminMW := middleware.AdminOnly(cfg.AdminDiscordID, response.WriteError)
	internalMW := middleware.InternalAuth(cfg.InternalSecret)

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:     healthH,
		Verify:     verifyH,
		Internal:   internalH,
		Admin:      adminH,
		AuthMW:     authMW,
		AdminMW:    adminMW,
		InternalMW: internalMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(addr string, debug bool) (*sql.DB, error) {
			return config.NewDB(addr, debug)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewEmailSender: func(cfg email.SenderConfig) (verification.EmailSender, error) {
			return email.NewSender(cfg)
		},
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
