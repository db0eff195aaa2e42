package http_handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/brunoverifies/verification-service/internal/application/verification"
	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/logger"
	"github.com/brunoverifies/verification-service/internal/transport/http/dto"
	"github.com/brunoverifies/verification-service/internal/transport/http/middleware"
	"github.com/brunoverifies/verification-service/internal/transport/http/response"
)

type VerifyHandler struct {
	svc     *verification.Service
	codeTTL time.Duration
}

func NewVerifyHandler(svc *verification.Service, codeTTL time.Duration) *VerifyHandler {
	return &VerifyHandler{svc: svc, codeTTL: codeTTL}
}

// statusLabel converts an operation outcome into a metrics label.
func statusLabel(err error) string {
	if err == nil {
		return "success"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "error"
}

// Request handles POST /verify/v1/request (session authenticated).
func (h *VerifyHandler) Request(w http.ResponseWriter, r *http.Request) {
	discordID, ok := middleware.DiscordIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.RequestVerification
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	err := h.svc.Request(r.Context(), discordID, req.Email)
	middleware.VerificationRequestsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("discord_id", discordID).
		Msg("verification_code_requested")

	response.OK(w, dto.RequestVerificationResponse{
		Status:    "code_sent",
		ExpiresIn: int(h.codeTTL.Seconds()),
	})
}

// Confirm handles POST /verify/v1/confirm (session authenticated).
func (h *VerifyHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	discordID, ok := middleware.DiscordIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.ConfirmVerification
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	claim := req.Claim()
	err := h.svc.Confirm(r.Context(), discordID, req.Code, claim, domain.MethodWebsite)
	middleware.VerificationConfirmsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("discord_id", discordID).
		Msg("verification_confirmed")

	rec, rerr := h.svc.Status(r.Context(), discordID)
	recType := claim.Type()
	if rerr == nil {
		recType = rec.Type
	}

	response.OK(w, dto.ConfirmVerificationResponse{
		Status: "verified",
		Type:   recType,
	})
}

// Status handles GET /verify/v1/status (session authenticated).
func (h *VerifyHandler) Status(w http.ResponseWriter, r *http.Request) {
	discordID, ok := middleware.DiscordIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	rec, err := h.svc.Status(r.Context(), discordID)
	if err != nil {
		if domain.Is(err, "record_not_found") {
			response.OK(w, dto.StatusResponse{Verified: false})
			return
		}
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusFromRecord(rec))
}
