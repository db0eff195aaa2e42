package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/brunoverifies/verification-service/internal/domain"
)

type VerificationRepo struct {
	db *sql.DB
}

func NewVerificationRepo(db *sql.DB) *VerificationRepo {
	return &VerificationRepo{db: db}
}

// ---------- helpers ----------

func (r *VerificationRepo) scanRow(row *sql.Row) (verificationRow, error) {
	var vr verificationRow
	err := row.Scan(
		&vr.DiscordID,
		&vr.EmailHash,
		&vr.VerificationMethod,
		&vr.Type,
		&vr.VerifiedAt,
	)
	return vr, err
}

func toDomainRecord(vr verificationRow) domain.VerificationRecord {
	return domain.VerificationRecord{
		DiscordID:        vr.DiscordID,
		EmailFingerprint: vr.EmailHash,
		Method:           domain.VerificationMethod(vr.VerificationMethod),
		Type:             vr.Type,
		VerifiedAt:       vr.VerifiedAt,
	}
}

// ---------- verification.RecordRepo ----------

func (r *VerificationRepo) Upsert(ctx context.Context, rec domain.VerificationRecord) error {
	if strings.TrimSpace(rec.DiscordID) == "" {
		return domain.ErrMissingField("discord_id")
	}
	if rec.EmailFingerprint == "" {
		return domain.ErrMissingField("email_hash")
	}

	const q = `
INSERT INTO verifications (discord_id, email_hash, verification_method, type, verified_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (discord_id) DO UPDATE
SET email_hash = EXCLUDED.email_hash,
    verification_method = EXCLUDED.verification_method,
    type = EXCLUDED.type,
    verified_at = EXCLUDED.verified_at;
`
	_, err := r.db.ExecContext(ctx, q,
		rec.DiscordID, rec.EmailFingerprint, string(rec.Method), rec.Type, rec.VerifiedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			// unique(email_hash) tripped on a different account
			return domain.ErrEmailAlreadyVerified()
		}
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *VerificationRepo) GetByAccount(ctx context.Context, discordID string) (domain.VerificationRecord, error) {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return domain.VerificationRecord{}, domain.ErrMissingField("discord_id")
	}

	const q = `
SELECT discord_id, email_hash, verification_method, type, verified_at
FROM verifications
WHERE discord_id = $1
LIMIT 1;
`
	vr, err := r.scanRow(r.db.QueryRowContext(ctx, q, discordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VerificationRecord{}, domain.ErrRecordNotFound()
		}
		return domain.VerificationRecord{}, domain.ErrDBUnavailable(err)
	}
	return toDomainRecord(vr), nil
}

func (r *VerificationRepo) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	if fingerprint == "" {
		return false, domain.ErrMissingField("email_hash")
	}

	const q = `SELECT EXISTS (SELECT 1 FROM verifications WHERE email_hash = $1);`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, fingerprint).Scan(&exists); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return exists, nil
}

// Delete is idempotent; a missing row is not an error.
func (r *VerificationRepo) Delete(ctx context.Context, discordID string) error {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return domain.ErrMissingField("discord_id")
	}

	const q = `DELETE FROM verifications WHERE discord_id = $1;`
	if _, err := r.db.ExecContext(ctx, q, discordID); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *VerificationRepo) List(ctx context.Context) ([]domain.VerificationRecord, error) {
	const q = `
SELECT discord_id, email_hash, verification_method, type, verified_at
FROM verifications
ORDER BY verified_at DESC, discord_id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.VerificationRecord
	for rows.Next() {
		var vr verificationRow
		if err := rows.Scan(&vr.DiscordID, &vr.EmailHash, &vr.VerificationMethod, &vr.Type, &vr.VerifiedAt); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainRecord(vr))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
