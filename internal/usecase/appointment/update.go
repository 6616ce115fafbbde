package appointment

import (
	"context"
	"time"

	"github.com/agendafacil/api-agendamento/internal/audit"
	"github.com/agendafacil/api-agendamento/internal/cache"
	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type UpdateAppointmentInput struct {
	UserID        uint
	AppointmentID uint

	StartTime *time.Time
	EndTime   *time.Time

	ClientName  *string
	ClientEmail *string
	ClientPhone *string
	Notes       *string
}

type UpdateAppointment struct {
	repo     domain.Repository
	cache    *cache.SlotCache
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	notifier Notifier,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:     repo,
		cache:    slotCache,
		notifier: notifier,
		audit:    audit,
	}
}

// Execute edita contato/notas e, quando (start, end) mudam, remarca: o novo
// slot é reivindicado e o antigo liberado na mesma transação. Se o novo slot
// já estiver ocupado nada muda: a reserva original permanece intacta.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForUser(ctx, in.AppointmentID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.ClientName != nil {
		ap.Client.Name = *in.ClientName
	}
	if in.ClientEmail != nil {
		ap.Client.Email = *in.ClientEmail
	}
	if in.ClientPhone != nil {
		ap.Client.Phone = *in.ClientPhone
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	timeChanged := in.StartTime != nil && in.EndTime != nil &&
		(!in.StartTime.Equal(ap.StartTime) || !in.EndTime.Equal(ap.EndTime))

	if !timeChanged {
		if err := uc.repo.SaveAppointment(ctx, ap); err != nil {
			return nil, err
		}
		return ap, nil
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	oldStart, oldEnd := ap.StartTime, ap.EndTime
	ap.StartTime = *in.StartTime
	ap.EndTime = *in.EndTime

	if err := uc.repo.RescheduleAppointment(ctx, ap, oldStart, oldEnd); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.ScheduleID)
	uc.notifier.AppointmentEvent(EventRescheduled, ap.ID)

	uc.audit.Dispatch(audit.Event{
		UserID:  &in.UserID,
		Source:  "api",
		Message: "appointment_rescheduled",
		Metadata: map[string]any{
			"appointment_id": ap.ID,
			"old_start":      oldStart,
			"new_start":      ap.StartTime,
		},
	})

	return ap, nil
}
