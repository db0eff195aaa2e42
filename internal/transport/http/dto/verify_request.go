package dto

import (
	"strings"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// -------- Public verification flow (session authenticated) --------

type RequestVerification struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *RequestVerification) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return checkStruct(r)
}

type ConfirmVerification struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
	// Affiliation is the user-selected claim: "", "alumni", or a class year.
	Affiliation string `json:"affiliation"`
}

func (r *ConfirmVerification) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	return checkStruct(r)
}

// Claim parses the affiliation field; unknown values fall back to accepted.
func (r *ConfirmVerification) Claim() domain.Affiliation {
	return domain.ParseAffiliation(r.Affiliation)
}

// -------- Internal flow (bot, shared-secret authenticated) --------

// InternalRequestVerification is the bot-initiated variant: the bot already
// knows the caller's Discord id from the interaction.
type InternalRequestVerification struct {
	DiscordID string `json:"discord_id" validate:"required"`
	Email     string `json:"email" validate:"required"`
}

func (r *InternalRequestVerification) Validate() error {
	r.DiscordID = strings.TrimSpace(r.DiscordID)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return checkStruct(r)
}

// EmailWithDomain completes a bare local part with the default institutional
// domain, a convenience the slash command offers ("jcarberry" works).
func (r *InternalRequestVerification) EmailWithDomain(defaultDomain string) string {
	if strings.Contains(r.Email, "@") {
		return r.Email
	}
	return r.Email + "@" + defaultDomain
}

type InternalConfirmVerification struct {
	DiscordID   string `json:"discord_id" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	Affiliation string `json:"affiliation"`
}

func (r *InternalConfirmVerification) Validate() error {
	r.DiscordID = strings.TrimSpace(r.DiscordID)
	r.Code = strings.TrimSpace(r.Code)
	return checkStruct(r)
}

func (r *InternalConfirmVerification) Claim() domain.Affiliation {
	return domain.ParseAffiliation(r.Affiliation)
}
