package dto

import (
	"time"

	"github.com/brunoverifies/verification-service/internal/application/verification"
)

type DiscordUser struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Avatar      string   `json:"avatar,omitempty"`
	Roles       []string `json:"roles"`
	InGuild     bool     `json:"in_guild"`
}

type AdminVerification struct {
	DiscordID   string       `json:"discord_id"`
	EmailHash   string       `json:"email_hash,omitempty"`
	Type        string       `json:"type,omitempty"`
	Method      string       `json:"verification_method,omitempty"`
	VerifiedAt  time.Time    `json:"verified_at"`
	HasRecord   bool         `json:"has_record"`
	DiscordUser *DiscordUser `json:"discord_user,omitempty"`
}

type AdminVerificationsResponse struct {
	Verifications []AdminVerification `json:"verifications"`
	Stats         verification.Stats  `json:"stats"`
}

func FromAdminRecords(records []verification.AdminRecord, stats verification.Stats) AdminVerificationsResponse {
	out := make([]AdminVerification, 0, len(records))
	for _, ar := range records {
		v := AdminVerification{
			DiscordID:  ar.Record.DiscordID,
			VerifiedAt: ar.Record.VerifiedAt,
			HasRecord:  ar.HasRecord,
		}
		if ar.HasRecord {
			v.EmailHash = ar.Record.EmailFingerprint
			v.Type = ar.Record.Type
			v.Method = string(ar.Record.Method)
		}
		if ar.Member != nil {
			roles := make([]string, 0, len(ar.Member.Roles))
			for _, r := range ar.Member.Roles {
				roles = append(roles, string(r))
			}
			v.DiscordUser = &DiscordUser{
				Username:    ar.Member.Username,
				DisplayName: ar.Member.DisplayName,
				Avatar:      ar.Member.AvatarURL,
				Roles:       roles,
				InGuild:     ar.Member.InGuild,
			}
		}
		out = append(out, v)
	}
	return AdminVerificationsResponse{Verifications: out, Stats: stats}
}
