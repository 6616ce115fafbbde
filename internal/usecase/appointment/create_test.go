package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

var slotStart = time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

func seedRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.addSchedule(&models.Schedule{ID: 1, UserID: 10, Duration: 30})
	repo.addSlot(1, slotStart, slotStart.Add(30*time.Minute), true)
	repo.addSlot(1, slotStart.Add(time.Hour), slotStart.Add(90*time.Minute), true)
	return repo
}

func createInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		UserID:     10,
		ScheduleID: 1,
		StartTime:  slotStart,
		EndTime:    slotStart.Add(30 * time.Minute),
		ClientName: "Maria",
	}
}

func TestCreateAppointmentBooksSlot(t *testing.T) {
	repo := seedRepo()
	notifier := &fakeNotifier{}
	uc := NewCreateAppointment(repo, nil, notifier, nil)

	ap, err := uc.Execute(context.Background(), createInput())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.ID == 0 {
		t.Error("agendamento sem id")
	}
	if ap.Status != string(domain.StatusScheduled) {
		t.Errorf("status %s, esperava scheduled", ap.Status)
	}
	if ap.Source != "manual" {
		t.Errorf("source %s, esperava default manual", ap.Source)
	}

	slot := repo.slotAt(1, slotStart)
	if slot == nil || slot.Available {
		t.Error("slot deveria estar reservado")
	}

	events := notifier.sent()
	if len(events) != 1 || events[0] != EventCreated {
		t.Errorf("eventos %v, esperava [%s]", events, EventCreated)
	}
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	repo := seedRepo()
	uc := NewCreateAppointment(repo, nil, &fakeNotifier{}, nil)

	if _, err := uc.Execute(context.Background(), createInput()); err != nil {
		t.Fatalf("primeira reserva: %v", err)
	}

	_, err := uc.Execute(context.Background(), createInput())
	if !httperr.IsBusiness(err, "slot_unavailable") {
		t.Fatalf("esperava slot_unavailable, veio %v", err)
	}
}

func TestCreateAppointmentSlotMissing(t *testing.T) {
	repo := seedRepo()
	uc := NewCreateAppointment(repo, nil, &fakeNotifier{}, nil)

	in := createInput()
	in.StartTime = slotStart.Add(6 * time.Hour)
	in.EndTime = in.StartTime.Add(30 * time.Minute)

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "slot_not_found") {
		t.Fatalf("esperava slot_not_found, veio %v", err)
	}
}

func TestCreateAppointmentWrongOwner(t *testing.T) {
	repo := seedRepo()
	uc := NewCreateAppointment(repo, nil, &fakeNotifier{}, nil)

	in := createInput()
	in.UserID = 99

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "schedule_not_found") {
		t.Fatalf("esperava schedule_not_found, veio %v", err)
	}
}

// Duas reservas concorrentes sobre o mesmo slot: exatamente uma vence.
func TestCreateAppointmentConcurrentClaims(t *testing.T) {
	repo := seedRepo()
	uc := NewCreateAppointment(repo, nil, &fakeNotifier{}, nil)

	const attempts = 32

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), createInput())
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case httperr.IsBusiness(err, "slot_unavailable"):
			lost++
		default:
			t.Fatalf("erro inesperado: %v", err)
		}
	}

	if won != 1 {
		t.Fatalf("%d reservas venceram, esperava exatamente 1", won)
	}
	if lost != attempts-1 {
		t.Fatalf("%d perderam, esperava %d", lost, attempts-1)
	}
}
