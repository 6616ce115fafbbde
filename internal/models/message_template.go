package models

import (
	"strings"
	"time"
)

type MessageTemplate struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Name string `gorm:"size:100;not null" json:"name"`

	// confirmation | reminder | cancellation | reschedule | follow-up | custom
	Type string `gorm:"size:20;not null" json:"type"`

	// email | whatsapp | facebook | instagram | all
	Platform string `gorm:"size:20;not null" json:"platform"`

	Subject string `gorm:"size:200" json:"subject"`
	Content string `gorm:"type:text;not null" json:"content"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Render substitui placeholders {{nome}} pelos valores informados.
// Placeholder sem valor correspondente permanece no texto.
func (t *MessageTemplate) Render(vars map[string]string) string {
	out := t.Content
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}

func (t *MessageTemplate) RenderSubject(vars map[string]string) string {
	out := t.Subject
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}
