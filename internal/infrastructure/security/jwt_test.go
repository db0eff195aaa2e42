package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brunoverifies/verification-service/internal/domain"
)

func TestJWTVerifier_SignAndVerify_Success(t *testing.T) {
	t.Parallel()

	v := NewJWTVerifier("secret", "verification-service")
	tok, err := v.SignSessionToken("123456789", 2*time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	sub, err := v.VerifySessionToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if sub != "123456789" {
		t.Fatalf("expected subject 123456789, got %q", sub)
	}
}

func TestJWTVerifier_Expired_Rejected(t *testing.T) {
	t.Parallel()

	v := NewJWTVerifier("secret", "verification-service")
	tok, err := v.SignSessionToken("123", -1*time.Second)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := v.VerifySessionToken(tok)
	if verr == nil {
		t.Fatalf("expected error, got nil")
	}
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTVerifier_WrongSecret_Rejected(t *testing.T) {
	t.Parallel()

	v1 := NewJWTVerifier("secret1", "verification-service")
	v2 := NewJWTVerifier("secret2", "verification-service")

	tok, err := v1.SignSessionToken("123", time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := v2.VerifySessionToken(tok)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTVerifier_WrongIssuer_Rejected(t *testing.T) {
	t.Parallel()

	minter := NewJWTVerifier("secret", "someone-else")
	v := NewJWTVerifier("secret", "verification-service")

	tok, err := minter.SignSessionToken("123", time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := v.VerifySessionToken(tok)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTVerifier_AlgConfusion_Rejected(t *testing.T) {
	t.Parallel()

	// "none" alg must never pass.
	claims := jwt.MapClaims{
		"iss": "verification-service",
		"sub": "123",
		"exp": time.Now().Add(time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)

	unsigned, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected signing err: %v", err)
	}

	v := NewJWTVerifier("secret", "verification-service")
	_, verr := v.VerifySessionToken(unsigned)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTVerifier_EmptySubject_Rejected(t *testing.T) {
	t.Parallel()

	v := NewJWTVerifier("secret", "verification-service")
	tok, err := v.SignSessionToken("", time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := v.VerifySessionToken(tok)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTVerifier_MissingToken(t *testing.T) {
	t.Parallel()

	v := NewJWTVerifier("secret", "verification-service")
	_, err := v.VerifySessionToken("  ")
	if !domain.Is(err, "token_missing") {
		t.Fatalf("expected token_missing, got %v", err)
	}
}

func TestJWTVerifier_Garbage_Rejected(t *testing.T) {
	t.Parallel()

	v := NewJWTVerifier("secret", "verification-service")
	_, err := v.VerifySessionToken("not.a.jwt")
	if !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}
