package models

import "time"

/************************************************
/**** MARK: QUESTION TYPES ****/
/************************************************/
const QUESTION_TYPE_TEXT = "text"
const QUESTION_TYPE_MULTIPLE_CHOICE = "multiple_choice"

// LeadQuestion is one step of a trigger's lead-generation questionnaire.
// Options holds a JSON array of choices for multiple_choice questions.
type LeadQuestion struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TriggerID    int64      `gorm:"column:trigger_id;not null;index" json:"trigger_id"`
	QuestionText string     `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionType string     `gorm:"column:question_type;not null;default:'text'" json:"question_type"`
	Options      string     `gorm:"column:options;type:text;default:'[]'" json:"options"`
	IsRequired   bool       `gorm:"column:is_required;not null;default:true" json:"is_required"`
	OrderIndex   int        `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt    *time.Time `json:"created_at"`
}
