package models

import "time"

// Trigger is a configured WhatsApp Business integration endpoint.
// Each trigger gets its own public callback URL (/whatsapp/{node_id})
// and its own verify token for the Meta webhook handshake.
type Trigger struct {
	ID                int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	NodeID            string     `gorm:"column:node_id;not null;unique_index" json:"node_id"`
	BusinessName      string     `gorm:"column:business_name;not null" json:"business_name"`
	AppID             string     `gorm:"column:app_id;not null" json:"app_id"`
	PhoneID           string     `gorm:"column:phone_id;not null" json:"phone_id"`
	AccessToken       string     `gorm:"column:access_token;not null" json:"access_token"`
	CallbackURL       string     `gorm:"column:callback_url;not null" json:"callback_url"`
	VerifyToken       string     `gorm:"column:verify_token;not null;unique_index" json:"verify_token"`
	IsActive          bool       `gorm:"column:is_active;not null;default:false" json:"is_active"`
	CompletionMessage string     `gorm:"column:completion_message;type:text" json:"completion_message"`
	CreatedAt         *time.Time `json:"created_at"`
}
