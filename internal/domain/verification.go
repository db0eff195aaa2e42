package domain

import "time"

// CodeCategory records which allowed domain suffix matched at request time.
// It decides the numeric sub-range the code is drawn from and pins down which
// affiliations a later confirm may claim.
type CodeCategory string

const (
	CategoryStandard CodeCategory = "standard"
	CategoryAlumni   CodeCategory = "alumni"
)

// VerificationMethod records how a verification was completed.
type VerificationMethod string

const (
	MethodWebsite VerificationMethod = "website"
	MethodCommand VerificationMethod = "command"
	MethodAdmin   VerificationMethod = "admin"
)

// PendingVerification is the short-lived (code, fingerprint, expiry) tuple
// awaiting confirmation. At most one exists per account; a new request
// replaces it, invalidating the old code.
type PendingVerification struct {
	DiscordID        string       `json:"discord_id"`
	Code             string       `json:"code"`
	EmailFingerprint string       `json:"email_hash"`
	Category         CodeCategory `json:"category"`
	ExpiresAt        time.Time    `json:"expires_at"`
}

// Expired reports whether the code is past its expiry at the given instant.
// Expiry is a data-level check; store TTLs only exist as lazy cleanup.
func (p PendingVerification) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// VerificationRecord is the durable proof that an account completed
// verification. One active record per account; the email fingerprint is
// unique across all records.
type VerificationRecord struct {
	DiscordID        string
	EmailFingerprint string
	Method           VerificationMethod
	Type             string // "accepted", "alumni", or a class year
	VerifiedAt       time.Time
}

// PerRoleResult maps each role id to whether the external role API call
// succeeded. Partial failure is expected and tolerated.
type PerRoleResult map[RoleID]bool

// AllOK reports whether every role call succeeded.
func (r PerRoleResult) AllOK() bool {
	for _, ok := range r {
		if !ok {
			return false
		}
	}
	return true
}

// Failed returns the role ids whose calls failed, in unspecified order.
func (r PerRoleResult) Failed() []RoleID {
	var failed []RoleID
	for id, ok := range r {
		if !ok {
			failed = append(failed, id)
		}
	}
	return failed
}
