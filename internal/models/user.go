package models

import "time"

// Configuração de envio de e-mail por conta (provider smtp/sendgrid/mailgun/none)
type EmailSettings struct {
	Provider  string `gorm:"size:20;default:'none'" json:"provider"`
	APIKey    string `gorm:"size:255" json:"-"`
	FromEmail string `gorm:"size:100" json:"from_email"`
	FromName  string `gorm:"size:100" json:"from_name"`
	SMTPHost  string `gorm:"size:100" json:"smtp_host"`
	SMTPPort  int    `json:"smtp_port"`
	SMTPUser  string `gorm:"size:100" json:"smtp_user"`
	SMTPPass  string `gorm:"size:255" json:"-"`
}

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'business'" json:"role"`

	BusinessName string `gorm:"size:100" json:"business_name"`
	Timezone     string `gorm:"size:50;default:'UTC'" json:"timezone"`

	GoogleCalendarConnected    bool   `gorm:"default:false" json:"google_calendar_connected"`
	GoogleCalendarRefreshToken string `gorm:"size:255" json:"-"`

	EmailSettings EmailSettings `gorm:"embedded;embeddedPrefix:email_" json:"email_settings"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
