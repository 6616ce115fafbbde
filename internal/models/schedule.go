package models

import "time"

type Schedule struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:255" json:"description"`

	// Duração do atendimento e buffers em minutos
	Duration     int `gorm:"not null" json:"duration"`
	BufferBefore int `gorm:"default:0" json:"buffer_before"`
	BufferAfter  int `gorm:"default:0" json:"buffer_after"`

	LocationType    string `gorm:"size:20;default:'virtual'" json:"location_type"`
	LocationDetails string `gorm:"size:255" json:"location_details"`

	Active bool   `gorm:"default:true" json:"active"`
	Color  string `gorm:"size:7;default:'#3498db'" json:"color"`

	GoogleCalendarID string `gorm:"size:100" json:"google_calendar_id"`

	Availability []AvailabilityRule `gorm:"constraint:OnDelete:CASCADE;" json:"availability"`
	TimeSlots    []TimeSlot         `gorm:"constraint:OnDelete:CASCADE;" json:"time_slots,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Janela semanal de atendimento: weekday 0-6 (domingo=0), horários "HH:MM"
type AvailabilityRule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ScheduleID uint `gorm:"index" json:"schedule_id"`

	DayOfWeek int    `gorm:"not null" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
}

type TimeSlot struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ScheduleID uint `gorm:"uniqueIndex:idx_slot_bounds" json:"schedule_id"`

	StartTime time.Time `gorm:"uniqueIndex:idx_slot_bounds;not null" json:"start_time"`
	EndTime   time.Time `gorm:"uniqueIndex:idx_slot_bounds;not null" json:"end_time"`

	Available bool `gorm:"default:true" json:"available"`
}
