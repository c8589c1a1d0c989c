package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	dbpkg "watrigger/db"
	"watrigger/models"
	"watrigger/store"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const subscribeMode = "subscribe"

// webhookPayload is a tolerant mapping of Meta's webhook body. Every
// nested level is optional; message records stay raw so one malformed
// record cannot fail the rest of the batch.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []json.RawMessage `json:"messages"`
				// delivery/read status callbacks, ignored on purpose
				Statuses []json.RawMessage `json:"statuses"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type messageRecord struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// inboundMessage is one normalized message extracted from the payload.
type inboundMessage struct {
	From        string
	ContactName string
	Content     string
	Type        string
	Timestamp   string
	ButtonID    string
}

// extractMessages flattens the payload into normalized records. Malformed
// records are logged and skipped individually; status-only payloads yield
// an empty slice, which is not an error.
func extractMessages(payload webhookPayload) []inboundMessage {
	var out []inboundMessage

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			contactNames := map[string]string{}
			for _, contact := range change.Value.Contacts {
				if contact.WaID != "" && contact.Profile.Name != "" {
					contactNames[contact.WaID] = contact.Profile.Name
				}
			}

			for _, raw := range change.Value.Messages {
				var m messageRecord
				if err := json.Unmarshal(raw, &m); err != nil {
					log.Printf("webhook: skipping malformed message record: %v", err)
					continue
				}
				if strings.TrimSpace(m.From) == "" {
					log.Printf("webhook: skipping message record without sender")
					continue
				}

				in := inboundMessage{
					From:      m.From,
					Timestamp: m.Timestamp,
				}
				switch {
				case m.Text != nil:
					in.Content = m.Text.Body
					in.Type = models.MESSAGE_TYPE_TEXT
				case m.Interactive != nil && m.Interactive.Type == "button_reply" && m.Interactive.ButtonReply != nil:
					in.Content = "[Button Clicked] " + m.Interactive.ButtonReply.Title
					in.Type = models.MESSAGE_TYPE_INTERACTIVE
					in.ButtonID = m.Interactive.ButtonReply.ID
				case m.Interactive != nil:
					in.Content = "[Interactive Message]"
					in.Type = models.MESSAGE_TYPE_INTERACTIVE
				default:
					in.Content = "[Media Message]"
					in.Type = models.MESSAGE_TYPE_MEDIA
				}
				in.ContactName = contactNames[m.From]

				out = append(out, in)
			}
		}
	}

	return out
}

// GET /whatsapp/:nodeId
//
// Meta calls this once when the webhook is configured:
// GET /whatsapp/<node_id>?hub.mode=subscribe&hub.verify_token=...&hub.challenge=...
// The challenge must be echoed back byte for byte.
func WebhookVerify(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	trigger, err := store.TriggerStore{DB: db}.GetByNodeID(c.Param("nodeId"))
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "trigger not found", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == subscribeMode && token == trigger.VerifyToken {
		c.String(http.StatusOK, "%s", challenge)
		return
	}

	RespondError(c, "verification failed", http.StatusForbidden)
}

// POST /whatsapp/:nodeId
//
// Delivery endpoint. Meta retries aggressively on any non-2xx, so once
// the node id resolves this always answers 200: bad payloads are logged
// and dropped, never bounced.
func WebhookDeliver(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	trigger, err := store.TriggerStore{DB: db}.GetByNodeID(c.Param("nodeId"))
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "trigger not found", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		log.Printf("webhook: failed to read body for %s: %v", trigger.NodeID, err)
		c.String(http.StatusOK, "EVENT_RECEIVED")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("webhook: invalid json for %s: %v", trigger.NodeID, err)
		c.String(http.StatusOK, "EVENT_RECEIVED")
		return
	}

	msgs := extractMessages(payload)
	if len(msgs) > 0 {
		log.Printf("webhook: %d message(s) for trigger %d (%s)", len(msgs), trigger.ID, trigger.NodeID)
	}

	cfg := dbpkg.ConfigInstance(c)
	messages := store.MessageStore{DB: db}

	for _, m := range msgs {
		if _, err := messages.Append(trigger.ID, m.From, m.ContactName, m.Content, m.Type, m.Timestamp); err != nil {
			log.Printf("webhook: failed to store message from %s: %v", m.From, err)
			continue
		}
		// Lead automation (welcome buttons, questionnaire, replies) only
		// runs for triggers the user switched on; storage above does not
		// depend on the active flag.
		if trigger.IsActive {
			processLeadFlow(c.Request.Context(), db, cfg, trigger, m)
		}
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}
