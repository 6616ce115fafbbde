package appointment

import (
	"context"
	"time"

	"github.com/agendafacil/api-agendamento/internal/audit"
	"github.com/agendafacil/api-agendamento/internal/cache"
	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID     uint
	ScheduleID uint

	StartTime time.Time
	EndTime   time.Time

	ClientName  string
	ClientEmail string
	ClientPhone string

	Notes          string
	Source         string
	ConversationID string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	cache    *cache.SlotCache
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		cache:    slotCache,
		notifier: notifier,
		audit:    audit,
	}
}

// Execute reserva o slot cujos limites casam exatamente com (start, end) e
// cria o agendamento na mesma transação. A reivindicação é um único update
// condicional: entre duas chamadas concorrentes sobre o mesmo slot, uma
// recebe slot_unavailable.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if _, err := uc.repo.GetScheduleForUser(ctx, in.ScheduleID, in.UserID); err != nil {
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = "manual"
	}

	ap := &models.Appointment{
		ScheduleID: in.ScheduleID,
		UserID:     in.UserID,
		Client: models.ClientContact{
			Name:  in.ClientName,
			Email: in.ClientEmail,
			Phone: in.ClientPhone,
		},
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Status:         string(domain.InitialStatus()),
		Notes:          in.Notes,
		Source:         source,
		ConversationID: in.ConversationID,
	}

	if err := uc.repo.BookSlot(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.ScheduleID)
	uc.notifier.AppointmentEvent(EventCreated, ap.ID)

	uc.audit.Dispatch(audit.Event{
		UserID:  &in.UserID,
		Source:  "api",
		Message: "appointment_created",
		Metadata: map[string]any{
			"appointment_id": ap.ID,
			"schedule_id":    ap.ScheduleID,
			"start":          ap.StartTime,
			"source":         ap.Source,
		},
	})

	return ap, nil
}
