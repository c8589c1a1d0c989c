package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"watrigger/models"
	"watrigger/store"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// requireTrigger resolves :id to an existing trigger or answers 404.
func requireTrigger(c *gin.Context) (*gorm.DB, *models.Trigger, bool) {
	id, ok := ParamID(c, "id")
	if !ok {
		return nil, nil, false
	}
	db, ok := requireDB(c)
	if !ok {
		return nil, nil, false
	}
	trigger, err := store.TriggerStore{DB: db}.GetByID(id)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "trigger not found", http.StatusNotFound)
			return nil, nil, false
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return nil, nil, false
	}
	return db, trigger, true
}

// GET /api/triggers/:id/questions
func GetLeadQuestions(c *gin.Context) {
	db, trigger, ok := requireTrigger(c)
	if !ok {
		return
	}
	questions, err := store.LeadStore{DB: db}.ListQuestions(trigger.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"questions": questions})
}

type createQuestionReq struct {
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	IsRequired   *bool    `json:"is_required"`
	OrderIndex   int      `json:"order_index"`
}

// POST /api/triggers/:id/questions
func CreateLeadQuestion(c *gin.Context) {
	db, trigger, ok := requireTrigger(c)
	if !ok {
		return
	}

	var req createQuestionReq
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.QuestionText) == "" {
		RespondError(c, "question_text is required", http.StatusBadRequest)
		return
	}

	question := models.LeadQuestion{
		TriggerID:    trigger.ID,
		QuestionText: req.QuestionText,
		QuestionType: req.QuestionType,
		Options:      encodeOptions(req.Options),
		IsRequired:   req.IsRequired == nil || *req.IsRequired,
		OrderIndex:   req.OrderIndex,
	}
	if err := (store.LeadStore{DB: db}).CreateQuestion(&question); err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"question": question})
}

// GET /api/triggers/:id/leads
func GetLeads(c *gin.Context) {
	db, trigger, ok := requireTrigger(c)
	if !ok {
		return
	}
	leads, err := store.LeadStore{DB: db}.ListForTrigger(trigger.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"leads": leads})
}

// DELETE /api/triggers/:id/leads/:leadId
func DeleteLead(c *gin.Context) {
	db, trigger, ok := requireTrigger(c)
	if !ok {
		return
	}
	leadID, ok := ParamID(c, "leadId")
	if !ok {
		return
	}
	if err := (store.LeadStore{DB: db}).DeleteByID(trigger.ID, leadID); err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "lead not found", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"deleted": true})
}

// DELETE /api/triggers/:id/leads
func DeleteAllLeads(c *gin.Context) {
	db, trigger, ok := requireTrigger(c)
	if !ok {
		return
	}
	count, err := store.LeadStore{DB: db}.DeleteForTrigger(trigger.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"deleted": count})
}

func encodeOptions(options []string) string {
	if len(options) == 0 {
		return "[]"
	}
	// options came from a decoded JSON array, re-encoding cannot fail
	b, _ := json.Marshal(options)
	return string(b)
}
