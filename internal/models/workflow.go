package models

import "time"

type Workflow struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	// messaging | scheduling | reminder | notification | custom
	Type string `gorm:"size:20;not null" json:"type"`

	// Triggers e actions serializados em JSON (ver internal/workflow)
	Triggers string `gorm:"type:text" json:"triggers"`
	Actions  string `gorm:"type:text" json:"actions"`

	Active bool `gorm:"default:true" json:"active"`

	LastExecuted   *time.Time `json:"last_executed"`
	ExecutionCount int        `gorm:"default:0" json:"execution_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
