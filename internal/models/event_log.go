package models

import "time"

type EventLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint `gorm:"index" json:"user_id"`

	// info | warning | error | debug
	Level string `gorm:"size:10;default:'info'" json:"level"`

	// system | whatsapp | facebook | instagram | google_calendar | email | api
	Source string `gorm:"size:30;not null" json:"source"`

	Message  string `gorm:"size:255;not null" json:"message"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
