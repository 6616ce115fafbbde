package schedule

import (
	"context"

	"github.com/agendafacil/api-agendamento/internal/cache"
	domain "github.com/agendafacil/api-agendamento/internal/domain/schedule"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type ListSlots struct {
	repo  domain.Repository
	cache *cache.SlotCache
}

func NewListSlots(repo domain.Repository, slotCache *cache.SlotCache) *ListSlots {
	return &ListSlots{repo: repo, cache: slotCache}
}

func (uc *ListSlots) Execute(
	ctx context.Context,
	userID uint,
	scheduleID uint,
	onlyAvailable bool,
) ([]models.TimeSlot, error) {

	if _, err := uc.repo.GetScheduleForUser(ctx, scheduleID, userID); err != nil {
		return nil, err
	}

	slots, hit := uc.cache.Get(ctx, scheduleID)
	if !hit {
		var err error
		slots, err = uc.repo.ListSlots(ctx, scheduleID, false)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(ctx, scheduleID, slots)
	}

	if !onlyAvailable {
		return slots, nil
	}

	free := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			free = append(free, s)
		}
	}
	return free, nil
}
