package schedule

import (
	"time"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// Generate expande as regras semanais do schedule em slots concretos para o
// intervalo [rangeStart, rangeEnd], dias inclusivos, normalizados para a
// meia-noite do timezone informado. Função pura: persistir é papel do caller.
//
// Entre dois slots consecutivos o avanço é sempre
// duration + bufferBefore + bufferAfter: os dois buffers formam um único
// intervalo combinado, inclusive entre o último slot de uma janela e o fim
// dela. Regra malformada (HH:MM inválido ou início >= fim) é ignorada.
func Generate(sch *models.Schedule, rangeStart, rangeEnd time.Time, loc *time.Location) ([]models.TimeSlot, error) {
	if rangeStart.After(rangeEnd) {
		return nil, httperr.ErrBusiness("invalid_range")
	}
	if sch.Duration < MinDuration {
		return nil, httperr.ErrBusiness("invalid_schedule_config")
	}

	duration := time.Duration(sch.Duration) * time.Minute
	step := time.Duration(sch.Duration+sch.BufferBefore+sch.BufferAfter) * time.Minute

	day := midnight(rangeStart, loc)
	last := midnight(rangeEnd, loc)

	var slots []models.TimeSlot

	for !day.After(last) {
		weekday := int(day.Weekday())

		for _, rule := range sch.Availability {
			if rule.DayOfWeek != weekday {
				continue
			}

			startMin, err := ParseClock(rule.StartTime)
			if err != nil {
				continue
			}
			endMin, err := ParseClock(rule.EndTime)
			if err != nil || startMin >= endMin {
				continue
			}

			slotStart := clockOn(day, startMin, loc)
			windowEnd := clockOn(day, endMin, loc)

			for !slotStart.Add(duration).After(windowEnd) {
				slots = append(slots, models.TimeSlot{
					ScheduleID: sch.ID,
					StartTime:  slotStart,
					EndTime:    slotStart.Add(duration),
					Available:  true,
				})
				slotStart = slotStart.Add(step)
			}
		}

		day = day.AddDate(0, 0, 1)
	}

	return slots, nil
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func clockOn(day time.Time, minuteOfDay int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, loc)
}
