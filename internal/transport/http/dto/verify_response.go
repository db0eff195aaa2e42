package dto

import (
	"time"

	"github.com/brunoverifies/verification-service/internal/domain"
)

type RequestVerificationResponse struct {
	Status    string `json:"status"` // "code_sent"
	ExpiresIn int    `json:"expires_in_seconds"`
}

type ConfirmVerificationResponse struct {
	Status string `json:"status"` // "verified"
	Type   string `json:"type"`   // "accepted", "alumni", or a class year
}

// StatusResponse reports an account's own verification state.
type StatusResponse struct {
	Verified   bool       `json:"verified"`
	Type       string     `json:"type,omitempty"`
	Method     string     `json:"method,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

func StatusFromRecord(rec domain.VerificationRecord) StatusResponse {
	at := rec.VerifiedAt
	return StatusResponse{
		Verified:   true,
		Type:       rec.Type,
		Method:     string(rec.Method),
		VerifiedAt: &at,
	}
}
