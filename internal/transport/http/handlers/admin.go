package http_handlers

import (
	"net/http"

	"github.com/brunoverifies/verification-service/internal/application/verification"
	"github.com/brunoverifies/verification-service/internal/logger"
	"github.com/brunoverifies/verification-service/internal/transport/http/dto"
	"github.com/brunoverifies/verification-service/internal/transport/http/middleware"
	"github.com/brunoverifies/verification-service/internal/transport/http/response"
)

type AdminHandler struct {
	svc *verification.Service
}

func NewAdminHandler(svc *verification.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListVerifications handles GET /verify/v1/admin/verifications.
// ?mode=members switches to the membership-anchored view that also surfaces
// accounts holding roles without database history.
func (h *AdminHandler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	var (
		records []verification.AdminRecord
		stats   verification.Stats
		err     error
	)
	if r.URL.Query().Get("mode") == "members" {
		records, stats, err = h.svc.ListByGuildMembership(r.Context())
	} else {
		records, stats, err = h.svc.ListVerifications(r.Context())
	}
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.FromAdminRecords(records, stats))
}

// Actions handles POST /verify/v1/admin/actions.
func (h *AdminHandler) Actions(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminAction
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	var err error
	switch req.Action {
	case dto.ActionRevoke:
		err = h.svc.Revoke(r.Context(), req.DiscordID)
		middleware.RevocationsTotal.WithLabelValues(statusLabel(err)).Inc()
	case dto.ActionVerify:
		err = h.svc.AdminGrant(r.Context(), req.DiscordID, req.Claim())
	}
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("discord_id", req.DiscordID).
		Str("action", req.Action).
		Msg("admin_action_applied")

	response.OK(w, map[string]string{"status": "ok", "action": req.Action})
}
