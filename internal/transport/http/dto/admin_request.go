package dto

import (
	"strings"

	"github.com/brunoverifies/verification-service/internal/domain"
)

const (
	ActionRevoke = "revoke"
	ActionVerify = "verify"
)

// AdminAction is the admin dashboard's write endpoint: revoke a member's
// verification or manually verify one.
type AdminAction struct {
	DiscordID   string `json:"discord_id" validate:"required"`
	Action      string `json:"action" validate:"required"`
	Affiliation string `json:"affiliation"`
}

func (r *AdminAction) Validate() error {
	r.DiscordID = strings.TrimSpace(r.DiscordID)
	r.Action = strings.TrimSpace(strings.ToLower(r.Action))
	if err := checkStruct(r); err != nil {
		return err
	}
	if r.Action != ActionRevoke && r.Action != ActionVerify {
		return domain.ErrInvalidField("action", "must be revoke or verify")
	}
	return nil
}

func (r *AdminAction) Claim() domain.Affiliation {
	return domain.ParseAffiliation(r.Affiliation)
}
