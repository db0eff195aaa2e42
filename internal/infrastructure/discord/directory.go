package discord

import (
	"context"
	"time"

	"github.com/brunoverifies/verification-service/internal/application/verification"
	"github.com/brunoverifies/verification-service/internal/domain"
)

// Directory adapts the REST client to the admin read model's view of guild
// membership.
type Directory struct {
	client *Client
}

func NewDirectory(client *Client) *Directory {
	return &Directory{client: client}
}

func (d *Directory) Member(ctx context.Context, discordID string) (verification.GuildMember, error) {
	m, err := d.client.GetGuildMember(ctx, discordID)
	if err != nil {
		return verification.GuildMember{}, err
	}
	return toGuildMember(m), nil
}

func (d *Directory) User(ctx context.Context, discordID string) (verification.GuildMember, error) {
	u, err := d.client.GetUser(ctx, discordID)
	if err != nil {
		return verification.GuildMember{}, err
	}
	return verification.GuildMember{
		DiscordID:   u.ID,
		Username:    u.Username,
		DisplayName: displayName(u, ""),
		AvatarURL:   avatarURL(u.ID, u.Avatar),
	}, nil
}

func (d *Directory) ListMembers(ctx context.Context) ([]verification.GuildMember, error) {
	members, err := d.client.ListGuildMembers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]verification.GuildMember, 0, len(members))
	for _, m := range members {
		out = append(out, toGuildMember(m))
	}
	return out, nil
}

func toGuildMember(m apiMember) verification.GuildMember {
	roles := make([]domain.RoleID, 0, len(m.Roles))
	for _, r := range m.Roles {
		roles = append(roles, domain.RoleID(r))
	}

	joined := time.Time{}
	if m.JoinedAt != "" {
		if t, err := time.Parse(time.RFC3339, m.JoinedAt); err == nil {
			joined = t
		}
	}

	return verification.GuildMember{
		DiscordID:   m.User.ID,
		Username:    m.User.Username,
		DisplayName: displayName(m.User, m.Nick),
		AvatarURL:   avatarURL(m.User.ID, m.User.Avatar),
		Roles:       roles,
		JoinedAt:    joined,
		InGuild:     true,
	}
}

// displayName follows the precedence Discord clients use: guild nickname,
// then global display name, then the plain username.
func displayName(u apiUser, nick string) string {
	if nick != "" {
		return nick
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
