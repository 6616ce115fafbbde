package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *AppointmentGormRepository) GetScheduleForUser(
	ctx context.Context,
	scheduleID uint,
	userID uint,
) (*models.Schedule, error) {

	var sch models.Schedule
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", scheduleID, userID).
		First(&sch).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("schedule_not_found")
		}
		return nil, err
	}
	return &sch, nil
}

// --------------------------------------------------
// Appointment (create / reschedule / release)
// --------------------------------------------------

func (r *AppointmentGormRepository) BookSlot(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := claimSlot(tx, ap.ScheduleID, ap.StartTime, ap.EndTime); err != nil {
			return err
		}
		return tx.Omit("Schedule", "User").Create(ap).Error
	})
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
	oldStart time.Time,
	oldEnd time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := claimSlot(tx, ap.ScheduleID, ap.StartTime, ap.EndTime); err != nil {
			return err
		}
		if err := releaseSlot(tx, ap.ScheduleID, oldStart, oldEnd); err != nil {
			return err
		}
		return tx.Omit("Schedule", "User", "Reminders").Save(ap).Error
	})
}

func (r *AppointmentGormRepository) ReleaseAndSave(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Schedule", "User", "Reminders").Save(ap).Error; err != nil {
			return err
		}
		return releaseSlot(tx, ap.ScheduleID, ap.StartTime, ap.EndTime)
	})
}

func (r *AppointmentGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Schedule", "User", "Reminders").Save(ap).Error
}

// --------------------------------------------------
// Appointment (query)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForUser(
	ctx context.Context,
	appointmentID uint,
	userID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Schedule").
		Where("id = ? AND user_id = ?", appointmentID, userID).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	userID uint,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Schedule").
		Where("user_id = ?", userID).
		Order("start_time ASC")

	if filter.StartDate != nil {
		q = q.Where("start_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("start_time < ?", *filter.EndDate)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var aps []models.Appointment
	if err := q.Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
