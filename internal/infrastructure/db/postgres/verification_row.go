package postgres

import "time"

type verificationRow struct {
	DiscordID          string
	EmailHash          string
	VerificationMethod string
	Type               string
	VerifiedAt         time.Time
}
