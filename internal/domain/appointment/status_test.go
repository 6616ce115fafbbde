package appointment

import (
	"testing"
	"time"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

func TestIsActive(t *testing.T) {
	active := []Status{StatusScheduled, StatusConfirmed}
	for _, s := range active {
		if !IsActive(s) {
			t.Errorf("%s deveria ser ativo", s)
		}
	}

	inactive := []Status{StatusCancelled, StatusCompleted, StatusNoShow}
	for _, s := range inactive {
		if IsActive(s) {
			t.Errorf("%s não deveria ser ativo", s)
		}
	}
}

func TestConfirmOnlyFromScheduled(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusScheduled)}
	if err := Confirm(ap); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if ap.Status != string(StatusConfirmed) {
		t.Fatalf("status %s, esperava confirmed", ap.Status)
	}

	// confirmar duas vezes não é permitido
	if err := Confirm(ap); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("esperava invalid_state, veio %v", err)
	}
}

func TestCancelRecordsReasonAndTimestamp(t *testing.T) {
	now := time.Now()

	ap := &models.Appointment{Status: string(StatusConfirmed), Notes: "primeira vez"}
	if err := Cancel(ap, "cliente desistiu", now); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if ap.Status != string(StatusCancelled) {
		t.Fatalf("status %s, esperava cancelled", ap.Status)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Fatalf("CancelledAt não registrado: %v", ap.CancelledAt)
	}
	want := "primeira vez\n\nMotivo do cancelamento: cliente desistiu"
	if ap.Notes != want {
		t.Fatalf("notes %q, esperava %q", ap.Notes, want)
	}
}

func TestCancelFromTerminalState(t *testing.T) {
	for _, s := range []Status{StatusCancelled, StatusCompleted, StatusNoShow} {
		ap := &models.Appointment{Status: string(s)}
		if err := Cancel(ap, "", time.Now()); !httperr.IsBusiness(err, "invalid_state") {
			t.Errorf("cancelar de %s: esperava invalid_state, veio %v", s, err)
		}
	}
}

func TestCompleteSetsTimestamp(t *testing.T) {
	now := time.Now()

	ap := &models.Appointment{Status: string(StatusScheduled)}
	if err := Complete(ap, now); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Fatalf("status %s, esperava completed", ap.Status)
	}
	if ap.CompletedAt == nil || !ap.CompletedAt.Equal(now) {
		t.Fatalf("CompletedAt não registrado: %v", ap.CompletedAt)
	}
}

func TestMarkNoShow(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusConfirmed)}
	if err := MarkNoShow(ap); err != nil {
		t.Fatalf("MarkNoShow: %v", err)
	}
	if ap.Status != string(StatusNoShow) {
		t.Fatalf("status %s, esperava no-show", ap.Status)
	}
}

func TestCanReschedule(t *testing.T) {
	if err := CanReschedule(StatusScheduled); err != nil {
		t.Errorf("scheduled deveria poder remarcar: %v", err)
	}
	if err := CanReschedule(StatusCompleted); !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("completed não deveria poder remarcar, veio %v", err)
	}
}
