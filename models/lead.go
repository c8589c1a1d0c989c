package models

import "time"

/************************************************
/**** MARK: LEAD STATUS ****/
/************************************************/
const LEAD_STATUS_ACTIVE = "active"
const LEAD_STATUS_COMPLETED = "completed"

// Lead tracks one contact going through a trigger's question flow.
// Responses is a JSON object keyed by "q<questionID>".
type Lead struct {
	ID              int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TriggerID       int64      `gorm:"column:trigger_id;not null;index" json:"trigger_id"`
	PhoneNumber     string     `gorm:"column:phone_number;not null;index" json:"phone_number"`
	ContactName     string     `gorm:"column:contact_name;default:''" json:"contact_name"`
	Status          string     `gorm:"column:status;not null;default:'active'" json:"status"`
	CurrentQuestion int        `gorm:"column:current_question;not null;default:0" json:"current_question"`
	Responses       string     `gorm:"column:responses;type:text;default:'{}'" json:"responses"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}
