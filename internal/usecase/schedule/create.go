package schedule

import (
	"context"

	"github.com/agendafacil/api-agendamento/internal/audit"
	domain "github.com/agendafacil/api-agendamento/internal/domain/schedule"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type RuleInput struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type CreateScheduleInput struct {
	UserID uint

	Title        string
	Description  string
	Duration     int
	BufferBefore int
	BufferAfter  int

	LocationType    string
	LocationDetails string
	Color           string

	Availability []RuleInput
}

// ======================================================
// USE CASE
// ======================================================

type CreateSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateSchedule(repo domain.Repository, audit *audit.Dispatcher) *CreateSchedule {
	return &CreateSchedule{repo: repo, audit: audit}
}

func (uc *CreateSchedule) Execute(
	ctx context.Context,
	in CreateScheduleInput,
) (*models.Schedule, error) {

	rules := make([]models.AvailabilityRule, 0, len(in.Availability))
	for _, r := range in.Availability {
		rules = append(rules, models.AvailabilityRule{
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
	}

	if err := domain.ValidateConfig(in.Duration, in.BufferBefore, in.BufferAfter, rules); err != nil {
		return nil, err
	}

	locationType := in.LocationType
	if locationType == "" {
		locationType = "virtual"
	}
	color := in.Color
	if color == "" {
		color = "#3498db"
	}

	sch := &models.Schedule{
		UserID:          in.UserID,
		Title:           in.Title,
		Description:     in.Description,
		Duration:        in.Duration,
		BufferBefore:    in.BufferBefore,
		BufferAfter:     in.BufferAfter,
		LocationType:    locationType,
		LocationDetails: in.LocationDetails,
		Color:           color,
		Active:          true,
		Availability:    rules,
	}

	if err := uc.repo.CreateSchedule(ctx, sch); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:  &in.UserID,
		Source:  "api",
		Message: "schedule_created",
		Metadata: map[string]any{
			"schedule_id": sch.ID,
			"title":       sch.Title,
		},
	})

	return sch, nil
}
