package response

import (
	"net/http"

	pkgctx "github.com/brunoverifies/verification-service/internal/pkg/context"
)

// RequestIDFromContext extracts the request id set by the request-id middleware.
func RequestIDFromContext(r *http.Request) string {
	return pkgctx.GetRequestID(r.Context())
}
