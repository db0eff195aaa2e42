package http_handlers

import (
	"net/http"
	"time"

	"github.com/brunoverifies/verification-service/internal/application/verification"
	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/logger"
	"github.com/brunoverifies/verification-service/internal/transport/http/dto"
	"github.com/brunoverifies/verification-service/internal/transport/http/middleware"
	"github.com/brunoverifies/verification-service/internal/transport/http/response"
)

// InternalHandler serves the bot process. Identity comes from the request
// body, trusted because the route sits behind the shared-secret middleware.
type InternalHandler struct {
	svc           *verification.Service
	defaultDomain string
	codeTTL       time.Duration
}

func NewInternalHandler(svc *verification.Service, defaultDomain string, codeTTL time.Duration) *InternalHandler {
	return &InternalHandler{svc: svc, defaultDomain: defaultDomain, codeTTL: codeTTL}
}

// Request handles POST /verify/v1/internal/request.
func (h *InternalHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req dto.InternalRequestVerification
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	email := req.EmailWithDomain(h.defaultDomain)

	err := h.svc.Request(r.Context(), req.DiscordID, email)
	middleware.VerificationRequestsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("discord_id", req.DiscordID).
		Msg("verification_code_requested_via_command")

	response.OK(w, dto.RequestVerificationResponse{
		Status:    "code_sent",
		ExpiresIn: int(h.codeTTL.Seconds()),
	})
}

// Confirm handles POST /verify/v1/internal/confirm.
func (h *InternalHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req dto.InternalConfirmVerification
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	claim := req.Claim()
	err := h.svc.Confirm(r.Context(), req.DiscordID, req.Code, claim, domain.MethodCommand)
	middleware.VerificationConfirmsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("discord_id", req.DiscordID).
		Msg("verification_confirmed_via_command")

	recType := claim.Type()
	if rec, rerr := h.svc.Status(r.Context(), req.DiscordID); rerr == nil {
		recType = rec.Type
	}

	response.OK(w, dto.ConfirmVerificationResponse{
		Status: "verified",
		Type:   recType,
	})
}
