package middleware

import (
	"crypto/subtle"
	"net/http"
)

// InternalAuth protects the routes the bot process calls server to server.
func InternalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Strictly enforce presence even if config validation slipped.
			if secret == "" {
				http.Error(w, "internal auth misconfigured", http.StatusInternalServerError)
				return
			}

			got := r.Header.Get("X-Internal-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
