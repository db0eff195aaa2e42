package postgres

import (
	"context"
	"database/sql"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// EnsureSchema creates the verifications table on boot when it does not
// exist yet. The service owns this single table, so a migration tool would
// be overkill; restart safe.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS verifications (
    discord_id          TEXT PRIMARY KEY,
    email_hash          TEXT UNIQUE NOT NULL,
    verification_method TEXT NOT NULL,
    type                TEXT NOT NULL,
    verified_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verifications_verified_at ON verifications (verified_at DESC);
`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}
