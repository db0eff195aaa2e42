package verification

import (
	"context"
	"time"

	"github.com/brunoverifies/verification-service/internal/domain"
)

/*
PendingStore
------------
Persistence port for pending verification codes.
At most one row per account; Upsert replaces any prior row, which is what
invalidates an old code when the user re-requests.
*/
type PendingStore interface {
	Upsert(ctx context.Context, p domain.PendingVerification) error
	// Get returns ErrCodeNotFound when no pending row exists. Expiry is NOT
	// judged here; the service checks expires_at itself (read-time check).
	Get(ctx context.Context, discordID string) (domain.PendingVerification, error)
	Delete(ctx context.Context, discordID string) error
}

/*
RecordRepo
----------
Append/update ledger of finalized verifications.
Keyed by account id, unique by email fingerprint.
*/
type RecordRepo interface {
	Upsert(ctx context.Context, rec domain.VerificationRecord) error
	GetByAccount(ctx context.Context, discordID string) (domain.VerificationRecord, error)
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)
	// Delete is idempotent; deleting a missing record is not an error.
	Delete(ctx context.Context, discordID string) error
	// List returns all records ordered by verified_at descending.
	List(ctx context.Context) ([]domain.VerificationRecord, error)
}

/*
CodeGenerator
-------------
Produces 6-digit codes from a proper random source, with disjoint numeric
sub-ranges per category.
*/
type CodeGenerator interface {
	Generate(category domain.CodeCategory) (string, error)
}

/*
EmailSender
-----------
External transactional email collaborator. Errors are surfaced, not retried;
a failed send fails the whole request() call.
*/
type EmailSender interface {
	SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error
}

/*
RoleGateway
-----------
External role-management API. One call per role, tolerant of partial failure;
the returned map records the per-role outcome. Implementations never retry.
*/
type RoleGateway interface {
	Grant(ctx context.Context, discordID string, roles []domain.RoleID) domain.PerRoleResult
	Revoke(ctx context.Context, discordID string, roles []domain.RoleID) domain.PerRoleResult
}

/*
AuditNotifier
-------------
Fire-and-forget event notifications (Discord webhook). Failures are logged by
the implementation and never propagated into the caller's success path.
*/
type AuditNotifier interface {
	NotifyVerified(ctx context.Context, discordID string, method domain.VerificationMethod) error
	NotifyRevoked(ctx context.Context, discordID string) error
}

/*
MemberDirectory
---------------
Read-only view of live guild membership, used by the admin read model to
enrich records. Entirely best-effort from the service's point of view.
*/
type GuildMember struct {
	DiscordID   string
	Username    string
	DisplayName string
	AvatarURL   string
	Roles       []domain.RoleID
	JoinedAt    time.Time
	InGuild     bool
}

type MemberDirectory interface {
	// Member fetches guild-scoped info (nickname, roles, joined_at).
	Member(ctx context.Context, discordID string) (GuildMember, error)
	// User fetches the bare profile for accounts no longer in the guild.
	User(ctx context.Context, discordID string) (GuildMember, error)
	// ListMembers enumerates current guild members.
	ListMembers(ctx context.Context) ([]GuildMember, error)
}
