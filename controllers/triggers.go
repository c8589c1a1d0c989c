package controllers

import (
	"net/http"
	"strings"

	dbpkg "watrigger/db"
	"watrigger/models"
	"watrigger/store"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// GET /api/triggers
func GetTriggers(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}
	triggers, err := store.TriggerStore{DB: db}.List()
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"triggers": triggers})
}

// POST /api/triggers
func CreateTrigger(c *gin.Context) {
	var input store.TriggerInput
	if err := c.ShouldBind(&input); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	input.BusinessName = strings.TrimSpace(input.BusinessName)
	input.AppID = strings.TrimSpace(input.AppID)
	input.PhoneID = strings.TrimSpace(input.PhoneID)
	input.AccessToken = strings.TrimSpace(input.AccessToken)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"business_name", input.BusinessName},
		{"app_id", input.AppID},
		{"phone_id", input.PhoneID},
		{"access_token", input.AccessToken},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		RespondError(c, "missing required fields: "+strings.Join(missing, ", "), http.StatusBadRequest)
		return
	}

	db, ok := requireDB(c)
	if !ok {
		return
	}
	cfg := dbpkg.ConfigInstance(c)

	trigger, err := store.TriggerStore{DB: db}.Create(input, cfg.BaseCallbackURL)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trigger": trigger})
}

// POST /api/triggers/:id/toggle
func ToggleTrigger(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	trigger, err := store.TriggerStore{DB: db}.ToggleActive(id)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "trigger not found", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"trigger": trigger})
}

// DELETE /api/triggers/:id
// Cascades to the trigger's messages, leads and questions.
func DeleteTrigger(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	if err := (store.TriggerStore{DB: db}).Delete(id); err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "trigger not found", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"deleted": true})
}

// GET /api/triggers/:id/messages
// Messages come back newest first.
func GetTriggerMessages(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	if _, err := (store.TriggerStore{DB: db}).GetByID(id); err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "trigger not found", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	msgs, err := store.MessageStore{DB: db}.ListForTrigger(id)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"messages": msgs})
}

type sendMessageReq struct {
	ToNumber string `json:"to_number"`
	Message  string `json:"message"`
}

// POST /api/triggers/:id/send
// Sends a text message through the trigger's Cloud API credentials and
// records it with type "sent".
func SendTriggerMessage(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	trigger, err := store.TriggerStore{DB: db}.GetByID(id)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "trigger not found", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if !trigger.IsActive {
		RespondError(c, "trigger is not active", http.StatusBadRequest)
		return
	}

	var req sendMessageReq
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	req.ToNumber = strings.TrimSpace(req.ToNumber)
	if req.ToNumber == "" || req.Message == "" {
		RespondError(c, "missing to_number or message", http.StatusBadRequest)
		return
	}

	cfg := dbpkg.ConfigInstance(c)
	client := graphClient(cfg, trigger)

	messageID, err := client.SendText(c.Request.Context(), req.ToNumber, req.Message)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := (store.MessageStore{DB: db}).Append(
		trigger.ID, "sent_to_"+req.ToNumber, "", req.Message, models.MESSAGE_TYPE_SENT, "",
	); err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"sent": true, "message_id": messageID})
}

type completionMessageReq struct {
	CompletionMessage string `json:"completion_message"`
}

// PUT /api/triggers/:id/completion-message
func UpdateCompletionMessage(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var req completionMessageReq
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := (store.TriggerStore{DB: db}).SetCompletionMessage(id, req.CompletionMessage); err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "trigger not found", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"updated": true})
}
