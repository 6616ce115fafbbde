package appointment

import (
	"context"
	"time"

	"github.com/agendafacil/api-agendamento/internal/audit"
	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// TransitionAppointment cobre confirm / complete / no-show. Nenhuma dessas
// transições libera o slot: só cancelamento devolve o horário à grade.
type TransitionAppointment struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewTransitionAppointment(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
) *TransitionAppointment {
	return &TransitionAppointment{repo: repo, notifier: notifier, audit: audit}
}

func (uc *TransitionAppointment) Confirm(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.notifier.AppointmentEvent(EventConfirmed, ap.ID)
	uc.dispatch(userID, ap, "appointment_confirmed")
	return ap, nil
}

func (uc *TransitionAppointment) Complete(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap, time.Now()); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.dispatch(userID, ap, "appointment_completed")
	return ap, nil
}

func (uc *TransitionAppointment) MarkNoShow(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	if err := domain.MarkNoShow(ap); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.dispatch(userID, ap, "appointment_no_show")
	return ap, nil
}

func (uc *TransitionAppointment) dispatch(userID uint, ap *models.Appointment, action string) {
	uc.audit.Dispatch(audit.Event{
		UserID:  &userID,
		Source:  "api",
		Message: action,
		Metadata: map[string]any{
			"appointment_id": ap.ID,
			"status":         ap.Status,
		},
	})
}
