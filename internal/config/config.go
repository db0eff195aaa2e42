package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brunoverifies/verification-service/internal/domain"
)

type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Identity resolution: session tokens issued by the OAuth front are
	// HS256 JWTs whose subject is the stable Discord account id.
	JWTSecret string
	JWTIssuer string

	// Internal callers (the bot process) authenticate with a shared secret.
	InternalSecret string

	// Infrastructure
	DBAddr    string
	RedisAddr string

	// Verification flow
	VerifyDomain string // e.g. "brown.edu"
	AlumniDomain string // e.g. "alumni.brown.edu"
	CodeTTL      time.Duration

	// Discord
	DiscordBotToken   string
	DiscordGuildID    string
	DiscordAPIBase    string
	AdminDiscordID    string
	AuditWebhookURL   string // optional; audit disabled when empty
	RoleCatalog       domain.RoleCatalog
	TermsURL          string
	PrivacyURL        string

	// Email (SMTP)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	EmailFromName string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "verification-service")

	cfg.InternalSecret = os.Getenv("INTERNAL_SECRET")
	if cfg.InternalSecret == "" {
		return nil, fmt.Errorf("missing required env var: INTERNAL_SECRET")
	}

	// Infrastructure dependencies.
	// Fail fast here to avoid starting in a broken or partially-initialized state.
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("missing required env var: REDIS_ADDR")
	}

	cfg.VerifyDomain = getEnv("VERIFY_EMAIL_DOMAIN", "brown.edu")
	cfg.AlumniDomain = getEnv("ALUMNI_EMAIL_DOMAIN", "alumni."+cfg.VerifyDomain)

	ttl, err := getDuration("CODE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.CodeTTL = ttl

	// Discord
	cfg.DiscordBotToken = os.Getenv("DISCORD_BOT_TOKEN")
	if cfg.DiscordBotToken == "" {
		return nil, fmt.Errorf("missing required env var: DISCORD_BOT_TOKEN")
	}
	cfg.DiscordGuildID = os.Getenv("DISCORD_GUILD_ID")
	if cfg.DiscordGuildID == "" {
		return nil, fmt.Errorf("missing required env var: DISCORD_GUILD_ID")
	}
	cfg.AdminDiscordID = os.Getenv("ADMIN_DISCORD_ID")
	if cfg.AdminDiscordID == "" {
		return nil, fmt.Errorf("missing required env var: ADMIN_DISCORD_ID")
	}
	cfg.DiscordAPIBase = getEnv("DISCORD_API_BASE", "https://discord.com/api/v10")
	cfg.AuditWebhookURL = os.Getenv("DISCORD_LOG_WEBHOOK")

	catalog, err := loadRoleCatalog()
	if err != nil {
		return nil, err
	}
	cfg.RoleCatalog = catalog

	cfg.TermsURL = getEnv("TERMS_URL", "")
	cfg.PrivacyURL = getEnv("PRIVACY_URL", "")

	// Email
	cfg.SMTPHost = getEnv("SMTP_HOST", "smtp.gmail.com")
	cfg.SMTPPort = getEnv("SMTP_PORT", "587")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.EmailFrom = getEnv("EMAIL_FROM", "noreply@example.com")
	cfg.EmailFromName = getEnv("EMAIL_FROM_NAME", "Verification")

	// Timeout values are optional and have defaults.
	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

// loadRoleCatalog builds the fixed role catalog from env.
// DISCORD_CLASS_ROLES uses "year:roleID" pairs, e.g. "2026:111,2027:222".
func loadRoleCatalog() (domain.RoleCatalog, error) {
	cat := domain.RoleCatalog{
		Accepted:   domain.RoleID(os.Getenv("DISCORD_ROLE_ACCEPTED")),
		Student:    domain.RoleID(os.Getenv("DISCORD_ROLE_STUDENT")),
		Alumni:     domain.RoleID(os.Getenv("DISCORD_ROLE_ALUMNI")),
		ClassYears: map[string]domain.RoleID{},
	}
	if cat.Accepted == "" {
		return cat, fmt.Errorf("missing required env var: DISCORD_ROLE_ACCEPTED")
	}
	if cat.Student == "" {
		return cat, fmt.Errorf("missing required env var: DISCORD_ROLE_STUDENT")
	}
	if cat.Alumni == "" {
		return cat, fmt.Errorf("missing required env var: DISCORD_ROLE_ALUMNI")
	}

	raw := os.Getenv("DISCORD_CLASS_ROLES")
	if raw == "" {
		return cat, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return cat, fmt.Errorf("invalid DISCORD_CLASS_ROLES entry: %q", pair)
		}
		cat.ClassYears[strings.TrimSpace(parts[0])] = domain.RoleID(strings.TrimSpace(parts[1]))
	}
	return cat, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
