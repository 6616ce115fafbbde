package appointment

import (
	"context"

	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	userID uint,
	filter domain.ListFilter,
) ([]models.Appointment, error) {
	return uc.repo.ListAppointments(ctx, userID, filter)
}

func (uc *ListAppointments) Get(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.repo.GetAppointmentForUser(ctx, appointmentID, userID)
}
