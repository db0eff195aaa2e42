package discord

import (
	"context"
	"sync"

	"github.com/brunoverifies/verification-service/internal/domain"
	"github.com/brunoverifies/verification-service/internal/logger"
)

// RoleGateway grants and revokes guild roles one API call per role, in
// parallel. Partial failure is expected; callers get the per-role outcome
// and decide what to do with it.
type RoleGateway struct {
	client *Client
}

func NewRoleGateway(client *Client) *RoleGateway {
	return &RoleGateway{client: client}
}

func (g *RoleGateway) Grant(ctx context.Context, discordID string, roles []domain.RoleID) domain.PerRoleResult {
	return g.fanOut(ctx, discordID, roles, g.client.AddRole, "grant")
}

func (g *RoleGateway) Revoke(ctx context.Context, discordID string, roles []domain.RoleID) domain.PerRoleResult {
	return g.fanOut(ctx, discordID, roles, g.client.RemoveRole, "revoke")
}

func (g *RoleGateway) fanOut(
	ctx context.Context,
	discordID string,
	roles []domain.RoleID,
	call func(ctx context.Context, discordID, roleID string) error,
	action string,
) domain.PerRoleResult {
	result := make(domain.PerRoleResult, len(roles))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, roleID := range roles {
		roleID := roleID
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := call(ctx, discordID, string(roleID))
			if err != nil {
				logger.WithCtx(ctx).Warn().
					Err(err).
					Str("discord_id", discordID).
					Str("role_id", string(roleID)).
					Msgf("role %s failed", action)
			}
			mu.Lock()
			result[roleID] = err == nil
			mu.Unlock()
		}()
	}
	wg.Wait()

	return result
}
