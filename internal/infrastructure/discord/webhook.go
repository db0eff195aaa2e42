package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brunoverifies/verification-service/internal/domain"
)

const embedColor = 0x591C0B

// WebhookNotifier posts audit embeds to a Discord channel webhook. A blank
// URL disables it entirely; every method is then a no-op.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Fields      []embedField `json:"fields,omitempty"`
	Color       int          `json:"color"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

func (n *WebhookNotifier) NotifyVerified(ctx context.Context, discordID string, method domain.VerificationMethod) error {
	var methodText string
	switch method {
	case domain.MethodCommand:
		methodText = "They have received their accepted role using the command."
	case domain.MethodAdmin:
		methodText = "They were manually verified by an Admin."
	default:
		methodText = "They have received their accepted role using the website."
	}

	return n.post(ctx, webhookPayload{
		Embeds: []embed{{
			Title:       "🐻 User Verified!",
			Description: fmt.Sprintf("<@%s> has successfully received the accepted role.", discordID),
			Fields: []embedField{
				{Name: "Method", Value: methodText, Inline: true},
			},
			Color: embedColor,
		}},
	})
}

func (n *WebhookNotifier) NotifyRevoked(ctx context.Context, discordID string) error {
	return n.post(ctx, webhookPayload{
		Embeds: []embed{{
			Title:       "🐻 Verification Revoked",
			Description: fmt.Sprintf("<@%s> had their verification revoked by an Admin.", discordID),
			Color:       embedColor,
		}},
	})
}

func (n *WebhookNotifier) post(ctx context.Context, payload webhookPayload) error {
	if n.url == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook post: status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
