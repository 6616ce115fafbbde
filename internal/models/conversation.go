package models

import "time"

type ConversationContact struct {
	Name           string `gorm:"size:100" json:"name"`
	Phone          string `gorm:"size:20" json:"phone"`
	Email          string `gorm:"size:100" json:"email"`
	PlatformUserID string `gorm:"size:100" json:"platform_user_id"`
}

type Conversation struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_conv_platform" json:"user_id"`

	Platform               string `gorm:"size:20;uniqueIndex:idx_conv_platform;not null" json:"platform"`
	PlatformConversationID string `gorm:"size:100;uniqueIndex:idx_conv_platform;not null" json:"platform_conversation_id"`

	Contact ConversationContact `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`

	// active | closed | waiting | scheduled
	Status string `gorm:"size:20;default:'active'" json:"status"`

	Messages []ConversationMessage `gorm:"constraint:OnDelete:CASCADE;" json:"messages,omitempty"`

	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`
	AppointmentID *uint     `json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConversationMessage struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ConversationID uint `gorm:"index" json:"conversation_id"`

	// inbound | outbound
	Direction string `gorm:"size:10;not null" json:"direction"`
	Content   string `gorm:"type:text;not null" json:"content"`

	// id da mensagem na plataforma de origem
	MessageID string `gorm:"size:100" json:"message_id"`

	// received | sent | delivered | read | failed
	Status string `gorm:"size:20;default:'sent'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
