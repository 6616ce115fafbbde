package schedule

import (
	"context"
	"time"

	"github.com/agendafacil/api-agendamento/internal/models"
)

type Repository interface {
	// -------- Schedule --------
	CreateSchedule(
		ctx context.Context,
		sch *models.Schedule,
	) error

	GetScheduleForUser(
		ctx context.Context,
		scheduleID uint,
		userID uint,
	) (*models.Schedule, error)

	ListSchedules(
		ctx context.Context,
		userID uint,
	) ([]models.Schedule, error)

	UpdateSchedule(
		ctx context.Context,
		sch *models.Schedule,
		rules []models.AvailabilityRule,
	) error

	DeleteSchedule(
		ctx context.Context,
		scheduleID uint,
		userID uint,
	) error

	// -------- Ledger de disponibilidade --------
	ListSlots(
		ctx context.Context,
		scheduleID uint,
		onlyAvailable bool,
	) ([]models.TimeSlot, error)

	ClaimSlot(
		ctx context.Context,
		scheduleID uint,
		start time.Time,
		end time.Time,
	) error

	ReleaseSlot(
		ctx context.Context,
		scheduleID uint,
		start time.Time,
		end time.Time,
	) error

	ReplaceSlots(
		ctx context.Context,
		scheduleID uint,
		slots []models.TimeSlot,
	) error

	// -------- Reconciliação --------
	FindActiveAppointments(
		ctx context.Context,
		scheduleID uint,
	) ([]models.Appointment, error)
}
