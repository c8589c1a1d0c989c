package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type captured struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func graphServer(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()

	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &got.body); err != nil {
			t.Errorf("request body is not json: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestSendText(t *testing.T) {
	srv, got := graphServer(t, http.StatusOK, `{"messages":[{"id":"wamid.abc"}]}`)

	client := WhatsAppClient{
		AccessToken:   "tok-123",
		ApiVersion:    "v18.0",
		PhoneNumberID: "5550001",
		BaseURL:       srv.URL,
	}

	id, err := client.SendText(context.Background(), "15551230000", "hello there")
	if err != nil {
		t.Fatalf("SendText failed: %v", err)
	}
	if id != "wamid.abc" {
		t.Fatalf("expected message id wamid.abc, got %q", id)
	}
	if got.method != http.MethodPost {
		t.Fatalf("expected POST, got %s", got.method)
	}
	if got.path != "/v18.0/5550001/messages" {
		t.Fatalf("unexpected path %q", got.path)
	}
	if got.auth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header %q", got.auth)
	}
	if got.body["messaging_product"] != "whatsapp" || got.body["to"] != "15551230000" || got.body["type"] != "text" {
		t.Fatalf("unexpected request body: %v", got.body)
	}
	text := got.body["text"].(map[string]any)
	if text["body"] != "hello there" {
		t.Fatalf("unexpected text body: %v", text)
	}
}

func TestSendText_ApiError(t *testing.T) {
	srv, _ := graphServer(t, http.StatusUnauthorized, `{"error":{"message":"bad token"}}`)

	client := WhatsAppClient{AccessToken: "bad", PhoneNumberID: "1", BaseURL: srv.URL}
	_, err := client.SendText(context.Background(), "1555", "hi")
	if err == nil {
		t.Fatal("expected error on 401 response")
	}
	if !strings.Contains(err.Error(), "status=401") || !strings.Contains(err.Error(), "bad token") {
		t.Fatalf("error should carry status and body, got %v", err)
	}
}

func TestSendText_DefaultApiVersion(t *testing.T) {
	srv, got := graphServer(t, http.StatusOK, `{"messages":[{"id":"x"}]}`)

	client := WhatsAppClient{AccessToken: "t", PhoneNumberID: "9", BaseURL: srv.URL}
	if _, err := client.SendText(context.Background(), "1555", "hi"); err != nil {
		t.Fatalf("SendText failed: %v", err)
	}
	if got.path != "/"+DefaultGraphApiVersion+"/9/messages" {
		t.Fatalf("expected default api version in path, got %q", got.path)
	}
}

func TestSendButtons_CapsAndTruncates(t *testing.T) {
	srv, got := graphServer(t, http.StatusOK, `{"messages":[{"id":"x"}]}`)

	client := WhatsAppClient{AccessToken: "t", PhoneNumberID: "9", BaseURL: srv.URL}
	buttons := []Button{
		{ID: "a", Title: "this title is much longer than twenty characters"},
		{ID: "b", Title: "B"},
		{ID: "c", Title: "C"},
		{ID: "d", Title: "dropped"},
	}
	if _, err := client.SendButtons(context.Background(), "1555", "pick one", buttons); err != nil {
		t.Fatalf("SendButtons failed: %v", err)
	}

	if got.body["type"] != "interactive" {
		t.Fatalf("expected interactive type, got %v", got.body["type"])
	}
	interactive := got.body["interactive"].(map[string]any)
	if interactive["type"] != "button" {
		t.Fatalf("expected button interactive, got %v", interactive["type"])
	}
	if body := interactive["body"].(map[string]any); body["text"] != "pick one" {
		t.Fatalf("unexpected body text: %v", body)
	}

	action := interactive["action"].(map[string]any)
	sent := action["buttons"].([]any)
	if len(sent) != MaxButtons {
		t.Fatalf("expected %d buttons, got %d", MaxButtons, len(sent))
	}
	first := sent[0].(map[string]any)["reply"].(map[string]any)
	if title := first["title"].(string); len(title) != 20 {
		t.Fatalf("expected 20-char truncated title, got %q (%d)", title, len(title))
	}
	last := sent[2].(map[string]any)["reply"].(map[string]any)
	if last["id"] != "c" {
		t.Fatalf("expected button d dropped, last id is %v", last["id"])
	}
}
