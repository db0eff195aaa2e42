package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brunoverifies/verification-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type VerifyHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type InternalHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	ListVerifications(w http.ResponseWriter, r *http.Request)
	Actions(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Verify   VerifyHandler
	Internal InternalHandler
	Admin    AdminHandler

	AuthMW     func(http.Handler) http.Handler
	AdminMW    func(http.Handler) http.Handler
	InternalMW func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Verify == nil {
		return nil, fmt.Errorf("nil Verify handler")
	}
	if deps.Internal == nil {
		return nil, fmt.Errorf("nil Internal handler")
	}
	if deps.Admin == nil {
		return nil, fmt.Errorf("nil Admin handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}
	if deps.InternalMW == nil {
		return nil, fmt.Errorf("nil Internal middleware")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/verify/v1", func(r chi.Router) {
		// --- Website flow (session authenticated) ---
		r.With(deps.AuthMW).Post("/request", deps.Verify.Request)
		r.With(deps.AuthMW).Post("/confirm", deps.Verify.Confirm)
		r.With(deps.AuthMW).Get("/status", deps.Verify.Status)

		// --- Bot flow (shared secret) ---
		r.Route("/internal", func(r chi.Router) {
			r.Use(deps.InternalMW)

			r.Post("/request", deps.Internal.Request)
			r.Post("/confirm", deps.Internal.Confirm)
		})

		// --- Admin (privileged) ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Use(deps.AdminMW)

			r.Get("/verifications", deps.Admin.ListVerifications)
			r.Post("/actions", deps.Admin.Actions)
		})
	})

	return r, nil
}
