package middleware

import (
	"net/http"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// AdminOnly gates a route to the single configured admin account. Must run
// after Auth so the caller identity is already in context.
func AdminOnly(adminDiscordID string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := DiscordIDFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}
			if adminDiscordID == "" || id != adminDiscordID {
				writeErr(w, r, domain.ErrAdminOnly())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
