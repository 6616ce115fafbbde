package models

import "time"

type Integration struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_user_platform" json:"user_id"`

	Platform string `gorm:"size:20;uniqueIndex:idx_user_platform;not null" json:"platform"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Status   string `gorm:"size:20;default:'pending'" json:"status"`

	// Credenciais e settings serializados em JSON (tokens, ids de conta)
	Credentials string `gorm:"type:text" json:"-"`
	Settings    string `gorm:"type:text" json:"settings"`

	WebhookURL    string `gorm:"size:255" json:"webhook_url"`
	VerifyToken   string `gorm:"size:100" json:"-"`
	WebhookSecret string `gorm:"size:100" json:"-"`

	LastSyncedAt *time.Time `json:"last_synced_at"`
	ErrorMessage string     `gorm:"size:255" json:"error_message"`
	ErrorCount   int        `gorm:"default:0" json:"error_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
