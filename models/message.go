package models

import "time"

/************************************************
/**** MARK: MESSAGE TYPES ****/
/************************************************/
const MESSAGE_TYPE_TEXT = "text"
const MESSAGE_TYPE_INTERACTIVE = "interactive"
const MESSAGE_TYPE_MEDIA = "media"
const MESSAGE_TYPE_SENT = "sent"

// Message is an inbound (or outbound, type "sent") WhatsApp message tied
// to a trigger. Rows are append-only: they are never updated after insert
// and only removed when the owning trigger is deleted.
type Message struct {
	ID               int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TriggerID        int64     `gorm:"column:trigger_id;not null;index" json:"trigger_id"`
	Sender           string    `gorm:"column:sender;not null" json:"sender"`
	ContactName      string    `gorm:"column:contact_name;default:''" json:"contact_name"`
	Content          string    `gorm:"column:content;type:text;not null" json:"content"`
	MessageType      string    `gorm:"column:message_type;not null;default:'text'" json:"message_type"`
	MessageTimestamp string    `gorm:"column:message_timestamp;default:''" json:"message_timestamp"`
	ReceivedAt       time.Time `gorm:"column:received_at" json:"received_at"`
}
