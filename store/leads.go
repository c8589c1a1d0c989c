package store

import (
	"encoding/json"
	"strconv"

	"watrigger/models"

	"github.com/jinzhu/gorm"
)

// LeadStore owns the leads and lead_questions tables.
type LeadStore struct {
	DB *gorm.DB
}

// ListQuestions returns the trigger's questionnaire in order.
func (s LeadStore) ListQuestions(triggerID int64) ([]models.LeadQuestion, error) {
	var questions []models.LeadQuestion
	if err := s.DB.Where("trigger_id = ?", triggerID).
		Order("order_index asc, id asc").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (s LeadStore) CreateQuestion(q *models.LeadQuestion) error {
	if q.QuestionType == "" {
		q.QuestionType = models.QUESTION_TYPE_TEXT
	}
	if q.Options == "" {
		q.Options = "[]"
	}
	return s.DB.Create(q).Error
}

// ListForTrigger returns the trigger's leads newest first.
func (s LeadStore) ListForTrigger(triggerID int64) ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.DB.Where("trigger_id = ?", triggerID).
		Order("created_at desc, id desc").
		Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (s LeadStore) GetByPhone(triggerID int64, phoneNumber string) (*models.Lead, error) {
	var lead models.Lead
	if err := s.DB.Where("trigger_id = ? AND phone_number = ?", triggerID, phoneNumber).
		First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// Create starts a new lead at question zero with empty responses.
func (s LeadStore) Create(triggerID int64, phoneNumber, contactName string) (*models.Lead, error) {
	lead := models.Lead{
		TriggerID:   triggerID,
		PhoneNumber: phoneNumber,
		ContactName: contactName,
		Status:      models.LEAD_STATUS_ACTIVE,
		Responses:   "{}",
	}
	if err := s.DB.Create(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// RecordResponse stores the answer to questionID, advances the lead to
// nextQuestion and sets its status.
func (s LeadStore) RecordResponse(lead *models.Lead, questionID int64, answer string, nextQuestion int, status string) error {
	responses := map[string]string{}
	// a lead with garbage in responses starts over with just this answer
	_ = json.Unmarshal([]byte(lead.Responses), &responses)
	responses[responseKey(questionID)] = answer

	encoded, err := json.Marshal(responses)
	if err != nil {
		return err
	}

	if err := s.DB.Model(&models.Lead{}).Where("id = ?", lead.ID).
		Updates(map[string]any{
			"responses":        string(encoded),
			"current_question": nextQuestion,
			"status":           status,
		}).Error; err != nil {
		return err
	}

	lead.Responses = string(encoded)
	lead.CurrentQuestion = nextQuestion
	lead.Status = status
	return nil
}

// Restart puts an existing lead back at question zero, keeping recorded
// responses. Used when the contact taps "Get Started" again.
func (s LeadStore) Restart(lead *models.Lead) error {
	if err := s.DB.Model(&models.Lead{}).Where("id = ?", lead.ID).
		Updates(map[string]any{
			"current_question": 0,
			"status":           models.LEAD_STATUS_ACTIVE,
		}).Error; err != nil {
		return err
	}
	lead.CurrentQuestion = 0
	lead.Status = models.LEAD_STATUS_ACTIVE
	return nil
}

// DeleteByID removes one lead, scoped to the trigger so a lead id from
// another trigger cannot be deleted through the wrong URL.
func (s LeadStore) DeleteByID(triggerID, leadID int64) error {
	var lead models.Lead
	if err := s.DB.Where("id = ? AND trigger_id = ?", leadID, triggerID).
		First(&lead).Error; err != nil {
		return err
	}
	return s.DB.Delete(&lead).Error
}

// DeleteForTrigger removes every lead of the trigger, returning how many.
func (s LeadStore) DeleteForTrigger(triggerID int64) (int64, error) {
	res := s.DB.Where("trigger_id = ?", triggerID).Delete(&models.Lead{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func responseKey(questionID int64) string {
	return "q" + strconv.FormatInt(questionID, 10)
}
