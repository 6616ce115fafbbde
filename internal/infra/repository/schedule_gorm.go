package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/agendafacil/api-agendamento/internal/domain/schedule"
	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateSchedule(
	ctx context.Context,
	sch *models.Schedule,
) error {
	return r.db.WithContext(ctx).Create(sch).Error
}

func (r *ScheduleGormRepository) GetScheduleForUser(
	ctx context.Context,
	scheduleID uint,
	userID uint,
) (*models.Schedule, error) {

	var sch models.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Availability").
		Where("id = ? AND user_id = ?", scheduleID, userID).
		First(&sch).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("schedule_not_found")
		}
		return nil, err
	}
	return &sch, nil
}

func (r *ScheduleGormRepository) ListSchedules(
	ctx context.Context,
	userID uint,
) ([]models.Schedule, error) {

	var schedules []models.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Availability").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// UpdateSchedule grava os campos do schedule e recria as regras semanais
// (mesma transação; edição de regra nunca é mutação parcial).
func (r *ScheduleGormRepository) UpdateSchedule(
	ctx context.Context,
	sch *models.Schedule,
	rules []models.AvailabilityRule,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Availability", "TimeSlots").Save(sch).Error; err != nil {
			return err
		}

		if err := tx.
			Where("schedule_id = ?", sch.ID).
			Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}

		for i := range rules {
			rules[i].ID = 0
			rules[i].ScheduleID = sch.ID
		}
		if len(rules) > 0 {
			if err := tx.Create(&rules).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ScheduleGormRepository) DeleteSchedule(
	ctx context.Context,
	scheduleID uint,
	userID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", scheduleID, userID).
		Delete(&models.Schedule{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("schedule_not_found")
	}
	return nil
}

// --------------------------------------------------
// Ledger de disponibilidade
// --------------------------------------------------

func (r *ScheduleGormRepository) ListSlots(
	ctx context.Context,
	scheduleID uint,
	onlyAvailable bool,
) ([]models.TimeSlot, error) {

	q := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("start_time ASC")

	if onlyAvailable {
		q = q.Where("available = ?", true)
	}

	var slots []models.TimeSlot
	if err := q.Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *ScheduleGormRepository) ClaimSlot(
	ctx context.Context,
	scheduleID uint,
	start time.Time,
	end time.Time,
) error {
	return claimSlot(r.db.WithContext(ctx), scheduleID, start, end)
}

func (r *ScheduleGormRepository) ReleaseSlot(
	ctx context.Context,
	scheduleID uint,
	start time.Time,
	end time.Time,
) error {
	return releaseSlot(r.db.WithContext(ctx), scheduleID, start, end)
}

// ReplaceSlots descarta a sequência anterior de slots e instala a nova,
// reaplicando na mesma transação os horários de todo agendamento ativo para
// que nenhuma reserva volte a aparecer como livre.
func (r *ScheduleGormRepository) ReplaceSlots(
	ctx context.Context,
	scheduleID uint,
	slots []models.TimeSlot,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Where("schedule_id = ?", scheduleID).
			Delete(&models.TimeSlot{}).Error; err != nil {
			return err
		}

		for i := range slots {
			slots[i].ID = 0
			slots[i].ScheduleID = scheduleID
		}
		if len(slots) > 0 {
			if err := tx.CreateInBatches(slots, 200).Error; err != nil {
				return err
			}
		}

		active, err := findActiveAppointments(tx, scheduleID)
		if err != nil {
			return err
		}

		for _, ap := range active {
			err := claimSlot(tx, scheduleID, ap.StartTime, ap.EndTime)
			if httperr.IsBusiness(err, "slot_not_found") {
				// a regra mudou e a nova grade não cobre mais a reserva;
				// reinserimos o horário já ocupado para não órfã-la
				missing := models.TimeSlot{
					ScheduleID: scheduleID,
					StartTime:  ap.StartTime,
					EndTime:    ap.EndTime,
					Available:  false,
				}
				if err := tx.Create(&missing).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil && !httperr.IsBusiness(err, "slot_unavailable") {
				return err
			}
		}

		return nil
	})
}

func (r *ScheduleGormRepository) FindActiveAppointments(
	ctx context.Context,
	scheduleID uint,
) ([]models.Appointment, error) {
	return findActiveAppointments(r.db.WithContext(ctx), scheduleID)
}

// --------------------------------------------------
// Primitivas compartilhadas com o repositório de agendamentos
// --------------------------------------------------

// claimSlot é o update condicional que garante no máximo um vencedor por
// (schedule, start, end): available true -> false em um único UPDATE.
func claimSlot(db *gorm.DB, scheduleID uint, start, end time.Time) error {
	res := db.Model(&models.TimeSlot{}).
		Where(
			"schedule_id = ? AND start_time = ? AND end_time = ? AND available = ?",
			scheduleID, start, end, true,
		).
		Update("available", false)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.TimeSlot{}).
		Where(
			"schedule_id = ? AND start_time = ? AND end_time = ?",
			scheduleID, start, end,
		).
		Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return httperr.ErrBusiness("slot_not_found")
	}
	return httperr.ErrBusiness("slot_unavailable")
}

// releaseSlot é idempotente: liberar um slot já livre é sucesso.
func releaseSlot(db *gorm.DB, scheduleID uint, start, end time.Time) error {
	res := db.Model(&models.TimeSlot{}).
		Where(
			"schedule_id = ? AND start_time = ? AND end_time = ?",
			scheduleID, start, end,
		).
		Update("available", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("slot_not_found")
	}
	return nil
}

func findActiveAppointments(db *gorm.DB, scheduleID uint) ([]models.Appointment, error) {
	var active []models.Appointment
	if err := db.
		Select("id", "start_time", "end_time").
		Where(
			"schedule_id = ? AND status IN ?",
			scheduleID, []string{"scheduled", "confirmed"},
		).
		Order("start_time ASC").
		Find(&active).Error; err != nil {
		return nil, err
	}
	return active, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
