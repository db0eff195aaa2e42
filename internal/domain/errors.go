package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// Email does not end with one of the allowed institutional domains.
func ErrInvalidDomain(allowed string) *Error {
	return WithMeta(New(KindValidation, "invalid_domain", "email domain is not allowed"), map[string]string{
		"allowed": allowed,
	})
}

// ErrCodeExpired directs the caller to restart the request flow.
func ErrCodeExpired() *Error {
	return New(KindValidation, "code_expired", "verification code has expired")
}

// Claimed affiliation contradicts the domain category validated at request time.
func ErrAffiliationMismatch() *Error {
	return New(KindValidation, "affiliation_mismatch", "claimed affiliation does not match the verified email domain")
}

// ----------------------
// Auth errors (401)
// ----------------------

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "forbidden")
}

func ErrAdminOnly() *Error {
	return New(KindForbidden, "admin_only", "admin access required")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrCodeNotFound() *Error {
	return New(KindNotFound, "code_not_found", "no matching verification code")
}

func ErrRecordNotFound() *Error {
	return New(KindNotFound, "record_not_found", "verification record not found")
}

// ----------------------
// Conflict (409)
// ----------------------

// Email fingerprint is already bound to a verification record.
// Permanent until an admin revokes the holding account.
func ErrEmailAlreadyVerified() *Error {
	return New(KindConflict, "email_already_verified", "this email has already been used for verification")
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrRedisUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "redis_unavailable", "pending code store unavailable", cause)
}

// Email send failures are fatal for request(): losing the code email blocks
// the user entirely, unlike a missing role which self-heals on re-confirm.
func ErrEmailDeliveryFailed(cause error) *Error {
	return Wrap(KindInfrastructure, "email_delivery_failed", "could not send the verification email", cause)
}

func ErrRandomFailed(cause error) *Error {
	return Wrap(KindInternal, "random_failed", "random generation failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
