package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// FingerprintEmail returns the one-way fingerprint of an email address.
// The email is normalized (lowercased, trimmed) first so case and whitespace
// variants of the same address always map to the same fingerprint. Only this
// fingerprint is ever persisted; the raw email never reaches durable storage.
func FingerprintEmail(email string) string {
	clean := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(clean))
	return hex.EncodeToString(sum[:])
}

// TruncateFingerprint shortens a fingerprint for log correlation without
// echoing the full hash into logs.
func TruncateFingerprint(fp string) string {
	if len(fp) <= 8 {
		return fp
	}
	return fp[:8]
}
