package security

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// JWTVerifier validates the session tokens minted by the web frontend's
// OAuth callback. Only the Discord account id (subject) is consumed here.
type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(secret string, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// VerifySessionToken checks signature, expiry and issuer and returns the
// Discord account id the session belongs to.
func (v *JWTVerifier) VerifySessionToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenMissing()
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return "", domain.ErrTokenInvalid()
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", domain.ErrTokenInvalid()
	}
	return sub, nil
}

// SignSessionToken exists for tests and local tooling; production tokens are
// minted by the frontend's session layer with the same shared secret.
func (v *JWTVerifier) SignSessionToken(discordID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   discordID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(v.secret)
	if err != nil {
		return "", domain.ErrInternal(err)
	}
	return signed, nil
}
