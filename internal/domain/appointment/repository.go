package appointment

import (
	"context"
	"time"

	"github.com/agendafacil/api-agendamento/internal/models"
)

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

type Repository interface {
	// -------- Schedule --------
	GetScheduleForUser(
		ctx context.Context,
		scheduleID uint,
		userID uint,
	) (*models.Schedule, error)

	// -------- Appointment (create / reschedule / release) --------

	// BookSlot reivindica o slot exato (start, end) e insere o agendamento
	// na mesma transação.
	BookSlot(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// RescheduleAppointment reivindica o novo slot, libera o antigo e grava
	// o agendamento na mesma transação.
	RescheduleAppointment(
		ctx context.Context,
		ap *models.Appointment,
		oldStart time.Time,
		oldEnd time.Time,
	) error

	// ReleaseAndSave grava o agendamento e libera o slot correspondente
	// (apenas cancelamento; os demais estados mantêm o slot ocupado).
	ReleaseAndSave(
		ctx context.Context,
		ap *models.Appointment,
	) error

	SaveAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (query) --------
	GetAppointmentForUser(
		ctx context.Context,
		appointmentID uint,
		userID uint,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		userID uint,
		filter ListFilter,
	) ([]models.Appointment, error)
}
