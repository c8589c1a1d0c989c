package store

import (
	"fmt"
	"strings"

	"watrigger/models"
	"watrigger/tools"

	"github.com/jinzhu/gorm"
)

const nodeIDLen = 8
const verifyTokenLen = 16

// TriggerStore owns the triggers table. All methods persist immediately;
// nothing survives only in memory.
type TriggerStore struct {
	DB *gorm.DB
}

// TriggerInput carries the caller-supplied fields for a new trigger.
// Everything else (node_id, verify_token, callback_url) is generated here.
type TriggerInput struct {
	BusinessName string `json:"business_name"`
	AppID        string `json:"app_id"`
	PhoneID      string `json:"phone_id"`
	AccessToken  string `json:"access_token"`
}

// Create generates a fresh node_id and verify_token, computes the callback
// URL from baseURL and persists the trigger as inactive. baseURL is passed
// explicitly so URL computation stays deterministic and testable; the
// stored callback_url is never recomputed afterwards.
func (s TriggerStore) Create(in TriggerInput, baseURL string) (*models.Trigger, error) {
	nodeID, err := s.uniqueValue("node_id", nodeIDLen, tools.RandomHex)
	if err != nil {
		return nil, err
	}
	verifyToken, err := s.uniqueValue("verify_token", verifyTokenLen, tools.RandomString)
	if err != nil {
		return nil, err
	}

	trigger := models.Trigger{
		NodeID:       nodeID,
		BusinessName: in.BusinessName,
		AppID:        in.AppID,
		PhoneID:      in.PhoneID,
		AccessToken:  in.AccessToken,
		CallbackURL:  strings.TrimRight(baseURL, "/") + "/whatsapp/" + nodeID,
		VerifyToken:  verifyToken,
		IsActive:     false,
	}

	if err := s.DB.Create(&trigger).Error; err != nil {
		return nil, err
	}
	return &trigger, nil
}

// uniqueValue draws random values until one is not taken. The unique
// indexes still back this up against concurrent creations.
func (s TriggerStore) uniqueValue(column string, length int, gen func(int) string) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		v := gen(length)
		var count int
		if err := s.DB.Model(&models.Trigger{}).Where(column+" = ?", v).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return v, nil
		}
	}
	return "", fmt.Errorf("could not generate unique %s", column)
}

// List returns all triggers in creation order.
func (s TriggerStore) List() ([]models.Trigger, error) {
	var triggers []models.Trigger
	if err := s.DB.Order("id asc").Find(&triggers).Error; err != nil {
		return nil, err
	}
	return triggers, nil
}

func (s TriggerStore) GetByID(id int64) (*models.Trigger, error) {
	var trigger models.Trigger
	if err := s.DB.First(&trigger, id).Error; err != nil {
		return nil, err
	}
	return &trigger, nil
}

// GetByNodeID is the webhook-path lookup. Exact match, case-sensitive.
func (s TriggerStore) GetByNodeID(nodeID string) (*models.Trigger, error) {
	var trigger models.Trigger
	if err := s.DB.Where("node_id = ?", nodeID).First(&trigger).Error; err != nil {
		return nil, err
	}
	// sqlite LIKE-style collation does not apply to '=', but be explicit:
	// a differently-cased node id is a different node id.
	if trigger.NodeID != nodeID {
		return nil, gorm.ErrRecordNotFound
	}
	return &trigger, nil
}

// ToggleActive flips is_active and returns the updated trigger.
func (s TriggerStore) ToggleActive(id int64) (*models.Trigger, error) {
	trigger, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	trigger.IsActive = !trigger.IsActive
	if err := s.DB.Model(&models.Trigger{}).Where("id = ?", trigger.ID).
		Update("is_active", trigger.IsActive).Error; err != nil {
		return nil, err
	}
	return trigger, nil
}

// SetCompletionMessage replaces the trigger's completion message.
func (s TriggerStore) SetCompletionMessage(id int64, text string) error {
	res := s.DB.Model(&models.Trigger{}).Where("id = ?", id).
		Update("completion_message", text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the trigger and cascades to its messages, leads and
// questions in one transaction.
func (s TriggerStore) Delete(id int64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	tx := s.DB.Begin()
	for _, del := range []*gorm.DB{
		tx.Where("trigger_id = ?", id).Delete(&models.Message{}),
		tx.Where("trigger_id = ?", id).Delete(&models.Lead{}),
		tx.Where("trigger_id = ?", id).Delete(&models.LeadQuestion{}),
		tx.Where("id = ?", id).Delete(&models.Trigger{}),
	} {
		if del.Error != nil {
			tx.Rollback()
			return del.Error
		}
	}
	return tx.Commit().Error
}
