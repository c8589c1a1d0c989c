package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// deliveryPayload builds a minimal valid Meta delivery body with one text
// message.
func deliveryPayload(from, text string) map[string]any {
	return map[string]any{
		"object": "whatsapp_business_account",
		"entry": []any{
			map[string]any{
				"id": "entry-1",
				"changes": []any{
					map[string]any{
						"field": "messages",
						"value": map[string]any{
							"messaging_product": "whatsapp",
							"contacts": []any{
								map[string]any{
									"wa_id":   from,
									"profile": map[string]any{"name": "Jo"},
								},
							},
							"messages": []any{
								map[string]any{
									"from":      from,
									"id":        "wamid.1",
									"timestamp": "1700000000",
									"type":      "text",
									"text":      map[string]any{"body": text},
								},
							},
						},
					},
				},
			},
		},
	}
}

func verifyURL(nodeID, mode, token, challenge string) string {
	q := url.Values{}
	q.Set("hub.mode", mode)
	q.Set("hub.verify_token", token)
	q.Set("hub.challenge", challenge)
	return "/whatsapp/" + nodeID + "?" + q.Encode()
}

func TestWebhookVerify_EchoesChallengeExactly(t *testing.T) {
	_, h := newTestRouter(t)
	trigger := createTrigger(t, h)
	nodeID := trigger["node_id"].(string)
	token := trigger["verify_token"].(string)

	for _, challenge := range []string{
		"xyz",
		"1158201444",
		"with spaces & specials =?#%ü€",
	} {
		req := httptest.NewRequest(http.MethodGet, verifyURL(nodeID, "subscribe", token, challenge), nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("challenge %q: expected 200, got %d body=%q", challenge, rr.Code, rr.Body.String())
		}
		if rr.Body.String() != challenge {
			t.Fatalf("challenge not echoed byte-exact: got %q want %q", rr.Body.String(), challenge)
		}
	}
}

func TestWebhookVerify_Failures(t *testing.T) {
	_, h := newTestRouter(t)
	trigger := createTrigger(t, h)
	nodeID := trigger["node_id"].(string)
	token := trigger["verify_token"].(string)

	cases := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"wrong token", verifyURL(nodeID, "subscribe", "not-the-token", "xyz"), http.StatusForbidden},
		{"wrong mode", verifyURL(nodeID, "unsubscribe", token, "xyz"), http.StatusForbidden},
		{"unknown node id", verifyURL("deadbeef", "subscribe", token, "xyz"), http.StatusNotFound},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != tc.wantCode {
			t.Fatalf("%s: expected %d, got %d body=%q", tc.name, tc.wantCode, rr.Code, rr.Body.String())
		}
		if strings.Contains(rr.Body.String(), "xyz") {
			t.Fatalf("%s: challenge must not be echoed on failure, body=%q", tc.name, rr.Body.String())
		}
	}
}

func TestWebhookDeliver_UnknownNodeID(t *testing.T) {
	_, h := newTestRouter(t)

	rr := doJSON(t, h, http.MethodPost, "/whatsapp/deadbeef", deliveryPayload("111", "hi"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%q", rr.Code, rr.Body.String())
	}
}

func TestWebhookDeliver_StatusOnlyPayload(t *testing.T) {
	_, h := newTestRouter(t)
	trigger := createTrigger(t, h)
	nodeID := trigger["node_id"].(string)
	id := triggerID(t, trigger)

	payload := map[string]any{
		"object": "whatsapp_business_account",
		"entry": []any{
			map[string]any{
				"changes": []any{
					map[string]any{
						"field": "messages",
						"value": map[string]any{
							"statuses": []any{
								map[string]any{"id": "wamid.1", "status": "delivered"},
							},
						},
					},
				},
			},
		},
	}

	rr := doJSON(t, h, http.MethodPost, "/whatsapp/"+nodeID, payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for status-only payload, got %d body=%q", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodGet, "/api/triggers/"+id+"/messages", nil)
	msgs := decodeJSON(t, rr)["messages"].([]any)
	if len(msgs) != 0 {
		t.Fatalf("expected 0 stored messages, got %d", len(msgs))
	}
}

func TestWebhookDeliver_SkipsMalformedRecords(t *testing.T) {
	_, h := newTestRouter(t)
	trigger := createTrigger(t, h)
	nodeID := trigger["node_id"].(string)
	id := triggerID(t, trigger)

	payload := map[string]any{
		"entry": []any{
			map[string]any{
				"changes": []any{
					map[string]any{
						"field": "messages",
						"value": map[string]any{
							"contacts": []any{
								map[string]any{"wa_id": "111", "profile": map[string]any{"name": "Ann"}},
							},
							"messages": []any{
								map[string]any{
									"from": "111", "type": "text",
									"text": map[string]any{"body": "first"},
								},
								"this is not an object",
								map[string]any{
									// no sender: skipped
									"type": "text",
									"text": map[string]any{"body": "orphan"},
								},
								map[string]any{
									"from": "222", "type": "image",
								},
							},
						},
					},
				},
			},
		},
	}

	rr := doJSON(t, h, http.MethodPost, "/whatsapp/"+nodeID, payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%q", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodGet, "/api/triggers/"+id+"/messages", nil)
	msgs := decodeJSON(t, rr)["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 stored messages, got %d body=%q", len(msgs), rr.Body.String())
	}

	// newest first: the media fallback then the text message
	newest := msgs[0].(map[string]any)
	oldest := msgs[1].(map[string]any)
	if newest["sender"] != "222" || newest["message_type"] != "media" || newest["content"] != "[Media Message]" {
		t.Fatalf("unexpected media message: %v", newest)
	}
	if oldest["sender"] != "111" || oldest["content"] != "first" || oldest["contact_name"] != "Ann" {
		t.Fatalf("unexpected text message: %v", oldest)
	}
}

func TestWebhookDeliver_InvalidJSONStillAccepted(t *testing.T) {
	_, h := newTestRouter(t)
	trigger := createTrigger(t, h)
	nodeID := trigger["node_id"].(string)

	req := httptest.NewRequest(http.MethodPost, "/whatsapp/"+nodeID, strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for invalid json on known node id, got %d", rr.Code)
	}
}

// Full round trip: create, verify, deliver, read back.
func TestWebhookScenario(t *testing.T) {
	_, h := newTestRouter(t)
	trigger := createTrigger(t, h)
	nodeID := trigger["node_id"].(string)
	token := trigger["verify_token"].(string)
	id := triggerID(t, trigger)

	req := httptest.NewRequest(http.MethodGet, verifyURL(nodeID, "subscribe", token, "xyz"), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "xyz" {
		t.Fatalf("verification failed: %d body=%q", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodPost, "/whatsapp/"+nodeID, deliveryPayload("15551234567", "hi"))
	if rr.Code != http.StatusOK {
		t.Fatalf("delivery failed: %d body=%q", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodGet, "/api/triggers/"+id+"/messages", nil)
	msgs := decodeJSON(t, rr)["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	msg := msgs[0].(map[string]any)
	if msg["sender"] != "15551234567" || msg["content"] != "hi" {
		t.Fatalf("unexpected message: %v", msg)
	}
	if msg["message_timestamp"] != "1700000000" {
		t.Fatalf("message timestamp not stored: %v", msg)
	}
}
