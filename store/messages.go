package store

import (
	"time"

	"watrigger/models"

	"github.com/jinzhu/gorm"
)

// MessageStore owns the messages table. Rows are only ever inserted here
// or bulk-deleted by TriggerStore.Delete.
type MessageStore struct {
	DB *gorm.DB
}

// DashboardMessage is a message row joined with its owning trigger, for
// the cross-trigger dashboard feed.
type DashboardMessage struct {
	models.Message
	BusinessName string `json:"business_name"`
	NodeID       string `json:"node_id"`
}

// Append persists one message. The caller (webhook handler or send
// endpoint) has already validated that triggerID exists.
func (s MessageStore) Append(triggerID int64, sender, contactName, content, messageType, messageTimestamp string) (*models.Message, error) {
	msg := models.Message{
		TriggerID:        triggerID,
		Sender:           sender,
		ContactName:      contactName,
		Content:          content,
		MessageType:      messageType,
		MessageTimestamp: messageTimestamp,
		ReceivedAt:       time.Now(),
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListForTrigger returns the trigger's messages newest first
// (received_at desc, id as tie-breaker).
func (s MessageStore) ListForTrigger(triggerID int64) ([]models.Message, error) {
	var msgs []models.Message
	if err := s.DB.Where("trigger_id = ?", triggerID).
		Order("received_at desc, id desc").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListRecent returns the newest messages across all triggers joined with
// the trigger's business name and node id.
func (s MessageStore) ListRecent(limit int) ([]DashboardMessage, error) {
	var rows []DashboardMessage
	if err := s.DB.Table("messages").
		Select("messages.*, triggers.business_name, triggers.node_id").
		Joins("JOIN triggers ON triggers.id = messages.trigger_id").
		Order("messages.received_at desc, messages.id desc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteForTrigger is used by the cascading trigger delete.
func (s MessageStore) DeleteForTrigger(triggerID int64) error {
	return s.DB.Where("trigger_id = ?", triggerID).Delete(&models.Message{}).Error
}
