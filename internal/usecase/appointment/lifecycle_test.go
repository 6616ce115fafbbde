package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/httperr"
)

func bookOne(t *testing.T, repo *fakeRepo) uint {
	t.Helper()

	uc := NewCreateAppointment(repo, nil, &fakeNotifier{}, nil)
	ap, err := uc.Execute(context.Background(), createInput())
	if err != nil {
		t.Fatalf("reserva inicial: %v", err)
	}
	return ap.ID
}

func TestCancelReleasesSlot(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	notifier := &fakeNotifier{}
	uc := NewCancelAppointment(repo, nil, notifier, nil)

	ap, err := uc.Execute(context.Background(), 10, id, "imprevisto")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.Status != string(domain.StatusCancelled) {
		t.Errorf("status %s, esperava cancelled", ap.Status)
	}

	slot := repo.slotAt(1, slotStart)
	if slot == nil || !slot.Available {
		t.Error("cancelamento deveria devolver o slot à grade")
	}

	events := notifier.sent()
	if len(events) != 1 || events[0] != EventCancelled {
		t.Errorf("eventos %v", events)
	}
}

func TestCancelTwiceFails(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	uc := NewCancelAppointment(repo, nil, &fakeNotifier{}, nil)

	if _, err := uc.Execute(context.Background(), 10, id, ""); err != nil {
		t.Fatalf("primeiro cancelamento: %v", err)
	}

	_, err := uc.Execute(context.Background(), 10, id, "")
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("esperava invalid_state, veio %v", err)
	}
}

func TestConfirmKeepsSlotClaimed(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	uc := NewTransitionAppointment(repo, &fakeNotifier{}, nil)

	ap, err := uc.Confirm(context.Background(), 10, id)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if ap.Status != string(domain.StatusConfirmed) {
		t.Errorf("status %s", ap.Status)
	}

	slot := repo.slotAt(1, slotStart)
	if slot == nil || slot.Available {
		t.Error("confirmar não pode liberar o slot")
	}
}

func TestCompleteKeepsSlotClaimed(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	uc := NewTransitionAppointment(repo, &fakeNotifier{}, nil)

	ap, err := uc.Complete(context.Background(), 10, id)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if ap.CompletedAt == nil {
		t.Error("CompletedAt não registrado")
	}

	slot := repo.slotAt(1, slotStart)
	if slot == nil || slot.Available {
		t.Error("concluir não pode liberar o slot")
	}
}

func TestNoShowKeepsSlotClaimed(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	uc := NewTransitionAppointment(repo, &fakeNotifier{}, nil)

	if _, err := uc.MarkNoShow(context.Background(), 10, id); err != nil {
		t.Fatalf("MarkNoShow: %v", err)
	}

	slot := repo.slotAt(1, slotStart)
	if slot == nil || slot.Available {
		t.Error("no-show não pode liberar o slot")
	}
}

func TestRescheduleSwapsSlots(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	newStart := slotStart.Add(time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	notifier := &fakeNotifier{}
	uc := NewUpdateAppointment(repo, nil, notifier, nil)

	ap, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		UserID:        10,
		AppointmentID: id,
		StartTime:     &newStart,
		EndTime:       &newEnd,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !ap.StartTime.Equal(newStart) {
		t.Errorf("start %v, esperava %v", ap.StartTime, newStart)
	}

	if old := repo.slotAt(1, slotStart); old == nil || !old.Available {
		t.Error("slot antigo deveria voltar à grade")
	}
	if cur := repo.slotAt(1, newStart); cur == nil || cur.Available {
		t.Error("novo slot deveria estar reservado")
	}

	events := notifier.sent()
	if len(events) != 1 || events[0] != EventRescheduled {
		t.Errorf("eventos %v", events)
	}
}

// Remarcar para um slot ocupado falha sem tocar na reserva original.
func TestRescheduleToTakenSlotKeepsOriginal(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	// ocupa o segundo slot com outra reserva
	other := createInput()
	other.StartTime = slotStart.Add(time.Hour)
	other.EndTime = other.StartTime.Add(30 * time.Minute)
	createUC := NewCreateAppointment(repo, nil, &fakeNotifier{}, nil)
	if _, err := createUC.Execute(context.Background(), other); err != nil {
		t.Fatalf("segunda reserva: %v", err)
	}

	newStart := slotStart.Add(time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	uc := NewUpdateAppointment(repo, nil, &fakeNotifier{}, nil)
	_, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		UserID:        10,
		AppointmentID: id,
		StartTime:     &newStart,
		EndTime:       &newEnd,
	})
	if !httperr.IsBusiness(err, "slot_unavailable") {
		t.Fatalf("esperava slot_unavailable, veio %v", err)
	}

	if cur := repo.slotAt(1, slotStart); cur == nil || cur.Available {
		t.Error("a reserva original deveria permanecer intacta")
	}

	ap, err := repo.GetAppointmentForUser(context.Background(), id, 10)
	if err != nil {
		t.Fatalf("GetAppointmentForUser: %v", err)
	}
	if !ap.StartTime.Equal(slotStart) {
		t.Errorf("start %v, esperava o horário original %v", ap.StartTime, slotStart)
	}
}

func TestUpdateContactWithoutTimeChange(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	notifier := &fakeNotifier{}
	uc := NewUpdateAppointment(repo, nil, notifier, nil)

	name := "Maria Silva"
	notes := "prefere manhã"

	ap, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		UserID:        10,
		AppointmentID: id,
		ClientName:    &name,
		Notes:         &notes,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.Client.Name != name || ap.Notes != notes {
		t.Errorf("contato não atualizado: %+v", ap)
	}
	if len(notifier.sent()) != 0 {
		t.Error("edição sem troca de horário não dispara notificação")
	}
}

func TestRescheduleCancelledFails(t *testing.T) {
	repo := seedRepo()
	id := bookOne(t, repo)

	cancelUC := NewCancelAppointment(repo, nil, &fakeNotifier{}, nil)
	if _, err := cancelUC.Execute(context.Background(), 10, id, ""); err != nil {
		t.Fatalf("cancelamento: %v", err)
	}

	newStart := slotStart.Add(time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	uc := NewUpdateAppointment(repo, nil, &fakeNotifier{}, nil)
	_, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		UserID:        10,
		AppointmentID: id,
		StartTime:     &newStart,
		EndTime:       &newEnd,
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("esperava invalid_state, veio %v", err)
	}
}
