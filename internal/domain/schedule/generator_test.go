package schedule

import (
	"testing"
	"time"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// terça-feira, 3 de março de 2026
var tuesday = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

func newSchedule(duration, bufferBefore, bufferAfter int, rules ...models.AvailabilityRule) *models.Schedule {
	return &models.Schedule{
		ID:           1,
		Duration:     duration,
		BufferBefore: bufferBefore,
		BufferAfter:  bufferAfter,
		Availability: rules,
	}
}

func rule(day int, start, end string) models.AvailabilityRule {
	return models.AvailabilityRule{DayOfWeek: day, StartTime: start, EndTime: end}
}

func clock(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
}

func TestGenerateSingleDayNoBuffers(t *testing.T) {
	sch := newSchedule(30, 0, 0, rule(2, "09:00", "11:00"))

	slots, err := Generate(sch, tuesday, tuesday, time.UTC)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []time.Time{
		clock(tuesday, 9, 0),
		clock(tuesday, 9, 30),
		clock(tuesday, 10, 0),
		clock(tuesday, 10, 30),
	}
	if len(slots) != len(want) {
		t.Fatalf("esperava %d slots, veio %d", len(want), len(slots))
	}
	for i, s := range slots {
		if !s.StartTime.Equal(want[i]) {
			t.Errorf("slot %d: start %v, esperava %v", i, s.StartTime, want[i])
		}
		if !s.EndTime.Equal(want[i].Add(30 * time.Minute)) {
			t.Errorf("slot %d: end %v, esperava %v", i, s.EndTime, want[i].Add(30*time.Minute))
		}
		if !s.Available {
			t.Errorf("slot %d deveria nascer disponível", i)
		}
	}
}

// Janela de uma hora com buffer: o segundo slot não cabe porque o avanço
// (30 + 10) empurra o início para 09:40 e 09:40+30 passa de 10:00.
func TestGenerateBufferShrinksWindow(t *testing.T) {
	sch := newSchedule(30, 0, 10, rule(2, "09:00", "10:00"))

	slots, err := Generate(sch, tuesday, tuesday, time.UTC)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(slots) != 1 {
		t.Fatalf("esperava 1 slot, veio %d", len(slots))
	}
	if !slots[0].StartTime.Equal(clock(tuesday, 9, 0)) {
		t.Errorf("start %v, esperava 09:00", slots[0].StartTime)
	}
	if !slots[0].EndTime.Equal(clock(tuesday, 9, 30)) {
		t.Errorf("end %v, esperava 09:30", slots[0].EndTime)
	}
}

// O intervalo entre inícios consecutivos é sempre duration + buffers.
func TestGenerateStepBetweenSlots(t *testing.T) {
	sch := newSchedule(20, 5, 5, rule(2, "08:00", "12:00"))

	slots, err := Generate(sch, tuesday, tuesday, time.UTC)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(slots) < 2 {
		t.Fatalf("esperava vários slots, veio %d", len(slots))
	}

	step := 30 * time.Minute
	for i := 1; i < len(slots); i++ {
		got := slots[i].StartTime.Sub(slots[i-1].StartTime)
		if got != step {
			t.Errorf("intervalo entre slots %d e %d: %v, esperava %v", i-1, i, got, step)
		}
	}
}

func TestGenerateMultipleDays(t *testing.T) {
	// terça e quinta na mesma semana
	sch := newSchedule(60, 0, 0,
		rule(2, "09:00", "11:00"),
		rule(4, "14:00", "16:00"),
	)

	end := tuesday.AddDate(0, 0, 7)
	slots, err := Generate(sch, tuesday, end, time.UTC)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// 2 slots na terça + 2 na quinta, por semana; intervalo cobre uma
	// semana inteira, então a terça seguinte entra também
	if len(slots) != 6 {
		t.Fatalf("esperava 6 slots, veio %d", len(slots))
	}

	byWeekday := map[time.Weekday]int{}
	for _, s := range slots {
		byWeekday[s.StartTime.Weekday()]++
	}
	if byWeekday[time.Tuesday] != 4 || byWeekday[time.Thursday] != 2 {
		t.Errorf("distribuição por weekday errada: %v", byWeekday)
	}
}

func TestGenerateNoRuleForWeekday(t *testing.T) {
	sch := newSchedule(30, 0, 0, rule(5, "09:00", "12:00")) // só sexta

	slots, err := Generate(sch, tuesday, tuesday, time.UTC)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("esperava grade vazia, veio %d slots", len(slots))
	}
}

func TestGenerateSkipsMalformedRules(t *testing.T) {
	sch := newSchedule(30, 0, 0,
		rule(2, "25:00", "26:00"), // HH:MM inválido
		rule(2, "14:00", "12:00"), // início depois do fim
	)

	slots, err := Generate(sch, tuesday, tuesday, time.UTC)
	if err != nil {
		t.Fatalf("regra malformada não deveria ser erro: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("esperava grade vazia, veio %d slots", len(slots))
	}
}

func TestGenerateWindowSmallerThanDuration(t *testing.T) {
	sch := newSchedule(60, 0, 0, rule(2, "09:00", "09:30"))

	slots, err := Generate(sch, tuesday, tuesday, time.UTC)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("slot não cabe na janela; esperava 0, veio %d", len(slots))
	}
}

func TestGenerateInvalidRange(t *testing.T) {
	sch := newSchedule(30, 0, 0, rule(2, "09:00", "12:00"))

	_, err := Generate(sch, tuesday.AddDate(0, 0, 1), tuesday, time.UTC)
	if !httperr.IsBusiness(err, "invalid_range") {
		t.Fatalf("esperava invalid_range, veio %v", err)
	}
}

func TestGenerateInvalidDuration(t *testing.T) {
	sch := newSchedule(0, 0, 0, rule(2, "09:00", "12:00"))

	_, err := Generate(sch, tuesday, tuesday, time.UTC)
	if !httperr.IsBusiness(err, "invalid_schedule_config") {
		t.Fatalf("esperava invalid_schedule_config, veio %v", err)
	}
}

// Os slots nascem ancorados no relógio do timezone da conta, não em UTC.
func TestGenerateHonorsTimezone(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skip("tzdata indisponível")
	}

	sch := newSchedule(30, 0, 0, rule(2, "09:00", "10:00"))

	dayLocal := time.Date(2026, 3, 3, 0, 0, 0, 0, saoPaulo)
	slots, err := Generate(sch, dayLocal, dayLocal, saoPaulo)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("esperava 2 slots, veio %d", len(slots))
	}

	got := slots[0].StartTime.In(saoPaulo)
	if got.Hour() != 9 || got.Minute() != 0 {
		t.Errorf("primeiro slot começa %02d:%02d local, esperava 09:00", got.Hour(), got.Minute())
	}
}

func TestGenerateSlotsDoNotOverlap(t *testing.T) {
	sch := newSchedule(45, 5, 10, rule(2, "08:00", "18:00"))

	slots, err := Generate(sch, tuesday, tuesday, time.UTC)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := 1; i < len(slots); i++ {
		if slots[i].StartTime.Before(slots[i-1].EndTime) {
			t.Errorf("slot %d começa antes do fim do anterior: %v < %v",
				i, slots[i].StartTime, slots[i-1].EndTime)
		}
	}
}
