package models

import "time"

type ClientContact struct {
	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ScheduleID uint     `gorm:"index" json:"schedule_id"`
	Schedule   Schedule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"schedule"`

	UserID uint `gorm:"index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Client ClientContact `gorm:"embedded;embeddedPrefix:client_" json:"client"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`
	Source string `gorm:"size:20;default:'website'" json:"source"`

	GoogleEventID  string `gorm:"size:100" json:"google_event_id"`
	ConversationID string `gorm:"size:100" json:"conversation_id"`

	Reminders []AppointmentReminder `gorm:"constraint:OnDelete:CASCADE;" json:"reminders,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registro de lembrete enviado (email/whatsapp/facebook/instagram)
type AppointmentReminder struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	Channel string    `gorm:"size:20;not null" json:"channel"`
	Status  string    `gorm:"size:20;not null" json:"status"`
	SentAt  time.Time `json:"sent_at"`
}
