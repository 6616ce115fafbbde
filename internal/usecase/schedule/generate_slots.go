package schedule

import (
	"context"
	"time"

	"github.com/agendafacil/api-agendamento/internal/audit"
	"github.com/agendafacil/api-agendamento/internal/cache"
	domain "github.com/agendafacil/api-agendamento/internal/domain/schedule"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type GenerateSlotsInput struct {
	UserID     uint
	ScheduleID uint

	RangeStart time.Time
	RangeEnd   time.Time
	Location   *time.Location
}

type GenerateSlots struct {
	repo  domain.Repository
	cache *cache.SlotCache
	audit *audit.Dispatcher
}

func NewGenerateSlots(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	audit *audit.Dispatcher,
) *GenerateSlots {
	return &GenerateSlots{repo: repo, cache: slotCache, audit: audit}
}

// Execute expande as regras semanais no intervalo pedido e substitui a grade
// por inteiro. A reconciliação das reservas ativas acontece dentro do
// ReplaceSlots, na mesma transação, nunca num passo posterior.
func (uc *GenerateSlots) Execute(
	ctx context.Context,
	in GenerateSlotsInput,
) ([]models.TimeSlot, error) {

	sch, err := uc.repo.GetScheduleForUser(ctx, in.ScheduleID, in.UserID)
	if err != nil {
		return nil, err
	}

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	slots, err := domain.Generate(sch, in.RangeStart, in.RangeEnd, loc)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceSlots(ctx, sch.ID, slots); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, sch.ID)

	uc.audit.Dispatch(audit.Event{
		UserID:  &in.UserID,
		Source:  "api",
		Message: "slots_generated",
		Metadata: map[string]any{
			"schedule_id": sch.ID,
			"range_start": in.RangeStart,
			"range_end":   in.RangeEnd,
			"slot_count":  len(slots),
		},
	})

	// devolve a grade persistida, já com as reservas reaplicadas
	return uc.repo.ListSlots(ctx, sch.ID, false)
}
