package middleware

import (
	"net/http"
	"strings"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// SessionVerifier validates a session token and returns the Discord account
// id it was minted for.
type SessionVerifier interface {
	VerifySessionToken(token string) (string, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <session_token> and injects the
// Discord account id into the request context.
func Auth(verifier SessionVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			discordID, err := verifier.VerifySessionToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(discordID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithDiscordID(r.Context(), discordID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
