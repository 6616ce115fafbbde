package appointment

import (
	"context"
	"time"

	"github.com/agendafacil/api-agendamento/internal/audit"
	"github.com/agendafacil/api-agendamento/internal/cache"
	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type CancelAppointment struct {
	repo     domain.Repository
	cache    *cache.SlotCache
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		cache:    slotCache,
		notifier: notifier,
		audit:    audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, reason, time.Now()); err != nil {
		return nil, err
	}

	// grava o status e libera o slot na mesma transação
	if err := uc.repo.ReleaseAndSave(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.ScheduleID)
	uc.notifier.AppointmentEvent(EventCancelled, ap.ID)

	uc.audit.Dispatch(audit.Event{
		UserID:  &userID,
		Source:  "api",
		Message: "appointment_cancelled",
		Metadata: map[string]any{
			"appointment_id": ap.ID,
			"schedule_id":    ap.ScheduleID,
		},
	})

	return ap, nil
}
