package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a minimal Discord REST client scoped to the single guild the
// service manages. All calls authenticate with the bot token.
type Client struct {
	apiBase    string // e.g. https://discord.com/api/v10
	botToken   string
	guildID    string
	httpClient *http.Client
}

func NewClient(apiBase, botToken, guildID string) *Client {
	return &Client{
		apiBase:  apiBase,
		botToken: botToken,
		guildID:  guildID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsConfigured returns true if the bot credentials are set.
func (c *Client) IsConfigured() bool {
	return c.botToken != "" && c.guildID != ""
}

type apiUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
}

type apiMember struct {
	User     apiUser  `json:"user"`
	Nick     string   `json:"nick"`
	Roles    []string `json:"roles"`
	JoinedAt string   `json:"joined_at"`
}

func (c *Client) do(ctx context.Context, method, path string, wantStatus int, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("discord %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("discord %s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode != wantStatus {
		return resp.StatusCode, fmt.Errorf("discord %s %s: status %d: %s", method, path, resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("discord %s %s: parse body: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

// AddRole puts a role on a guild member. Idempotent on Discord's side.
func (c *Client) AddRole(ctx context.Context, discordID, roleID string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", c.guildID, discordID, roleID)
	_, err := c.do(ctx, http.MethodPut, path, http.StatusNoContent, nil)
	return err
}

// RemoveRole deletes a role from a guild member. A 404 counts as success so
// revocation stays idempotent for users who already left the guild.
func (c *Client) RemoveRole(ctx context.Context, discordID, roleID string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", c.guildID, discordID, roleID)
	status, err := c.do(ctx, http.MethodDelete, path, http.StatusNoContent, nil)
	if status == http.StatusNotFound {
		return nil
	}
	return err
}

// GetGuildMember fetches guild-scoped info (nickname, roles, joined_at).
func (c *Client) GetGuildMember(ctx context.Context, discordID string) (apiMember, error) {
	var m apiMember
	path := fmt.Sprintf("/guilds/%s/members/%s", c.guildID, discordID)
	_, err := c.do(ctx, http.MethodGet, path, http.StatusOK, &m)
	return m, err
}

// GetUser fetches the bare profile, which works for accounts outside the guild.
func (c *Client) GetUser(ctx context.Context, discordID string) (apiUser, error) {
	var u apiUser
	_, err := c.do(ctx, http.MethodGet, "/users/"+discordID, http.StatusOK, &u)
	return u, err
}

// listPageSize is Discord's maximum for the members list endpoint.
const listPageSize = 1000

// ListGuildMembers walks the paginated members list until exhausted.
func (c *Client) ListGuildMembers(ctx context.Context) ([]apiMember, error) {
	var out []apiMember
	after := ""
	for {
		q := url.Values{"limit": {strconv.Itoa(listPageSize)}}
		if after != "" {
			q.Set("after", after)
		}
		var page []apiMember
		path := fmt.Sprintf("/guilds/%s/members?%s", c.guildID, q.Encode())
		if _, err := c.do(ctx, http.MethodGet, path, http.StatusOK, &page); err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < listPageSize {
			return out, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func avatarURL(discordID, avatarHash string) string {
	if avatarHash == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", discordID, avatarHash)
}
