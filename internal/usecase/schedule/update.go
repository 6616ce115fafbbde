package schedule

import (
	"context"

	"github.com/agendafacil/api-agendamento/internal/audit"
	domain "github.com/agendafacil/api-agendamento/internal/domain/schedule"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type UpdateScheduleInput struct {
	UserID     uint
	ScheduleID uint

	Title        *string
	Description  *string
	Duration     *int
	BufferBefore *int
	BufferAfter  *int

	LocationType    *string
	LocationDetails *string
	Color           *string
	Active          *bool

	Availability *[]RuleInput
}

type UpdateSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateSchedule(repo domain.Repository, audit *audit.Dispatcher) *UpdateSchedule {
	return &UpdateSchedule{repo: repo, audit: audit}
}

// Execute altera a configuração da agenda. Editar regras não mexe nos slots
// já gerados: a grade só muda numa nova geração (que reconcilia as reservas).
func (uc *UpdateSchedule) Execute(
	ctx context.Context,
	in UpdateScheduleInput,
) (*models.Schedule, error) {

	sch, err := uc.repo.GetScheduleForUser(ctx, in.ScheduleID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		sch.Title = *in.Title
	}
	if in.Description != nil {
		sch.Description = *in.Description
	}
	if in.Duration != nil {
		sch.Duration = *in.Duration
	}
	if in.BufferBefore != nil {
		sch.BufferBefore = *in.BufferBefore
	}
	if in.BufferAfter != nil {
		sch.BufferAfter = *in.BufferAfter
	}
	if in.LocationType != nil {
		sch.LocationType = *in.LocationType
	}
	if in.LocationDetails != nil {
		sch.LocationDetails = *in.LocationDetails
	}
	if in.Color != nil {
		sch.Color = *in.Color
	}
	if in.Active != nil {
		sch.Active = *in.Active
	}

	rules := sch.Availability
	if in.Availability != nil {
		rules = make([]models.AvailabilityRule, 0, len(*in.Availability))
		for _, r := range *in.Availability {
			rules = append(rules, models.AvailabilityRule{
				DayOfWeek: r.DayOfWeek,
				StartTime: r.StartTime,
				EndTime:   r.EndTime,
			})
		}
	}

	if err := domain.ValidateConfig(sch.Duration, sch.BufferBefore, sch.BufferAfter, rules); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateSchedule(ctx, sch, rules); err != nil {
		return nil, err
	}
	sch.Availability = rules

	uc.audit.Dispatch(audit.Event{
		UserID:  &in.UserID,
		Source:  "api",
		Message: "schedule_updated",
		Metadata: map[string]any{
			"schedule_id": sch.ID,
		},
	})

	return sch, nil
}
