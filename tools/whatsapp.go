package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultGraphBaseURL = "https://graph.facebook.com"
const DefaultGraphApiVersion = "v18.0"

// WhatsApp caps reply buttons at 3 per message, titles at 20 chars.
const MaxButtons = 3
const maxButtonTitleLen = 20

// Button is a single reply button for an interactive message.
type Button struct {
	ID    string
	Title string
}

// WhatsAppClient is a thin client for WhatsApp Cloud API calls that are
// trigger-specific. BaseURL is overridable so tests can point it at a
// local server; empty means the real Graph API.
type WhatsAppClient struct {
	AccessToken   string
	ApiVersion    string // e.g. v18.0
	PhoneNumberID string
	BaseURL       string
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

func (c WhatsAppClient) post(ctx context.Context, body any) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultGraphBaseURL
	}
	apiVersion := strings.TrimSpace(c.ApiVersion)
	if apiVersion == "" {
		apiVersion = DefaultGraphApiVersion
	}
	url := fmt.Sprintf("%s/%s/%s/messages", base, apiVersion, strings.TrimSpace(c.PhoneNumberID))

	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.AccessToken))
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("whatsapp api error: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed sendResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || len(parsed.Messages) == 0 {
		// Meta always echoes a message id on success; tolerate its absence.
		return "", nil
	}
	return parsed.Messages[0].ID, nil
}

// SendText sends a plain text message and returns the vendor message id.
func (c WhatsAppClient) SendText(ctx context.Context, to string, text string) (string, error) {
	return c.post(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]any{
			"body": text,
		},
	})
}

// SendButtons sends an interactive message with up to MaxButtons reply
// buttons. Extra buttons are dropped and long titles truncated, matching
// the Cloud API limits instead of failing the send.
func (c WhatsAppClient) SendButtons(ctx context.Context, to string, bodyText string, buttons []Button) (string, error) {
	if len(buttons) > MaxButtons {
		buttons = buttons[:MaxButtons]
	}

	actions := make([]map[string]any, 0, len(buttons))
	for _, btn := range buttons {
		title := btn.Title
		if len(title) > maxButtonTitleLen {
			title = title[:maxButtonTitleLen]
		}
		actions = append(actions, map[string]any{
			"type": "reply",
			"reply": map[string]any{
				"id":    btn.ID,
				"title": title,
			},
		})
	}

	return c.post(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]any{
			"type": "button",
			"body": map[string]any{
				"text": bodyText,
			},
			"action": map[string]any{
				"buttons": actions,
			},
		},
	})
}
