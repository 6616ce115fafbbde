package appointment

import (
	"context"
	"sync"
	"time"

	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// fakeRepo guarda tudo em memória com a mesma semântica do repositório real:
// claim é um teste-e-troca atômico sob o mutex, release é idempotente e as
// operações compostas são tudo-ou-nada.
type fakeRepo struct {
	mu sync.Mutex

	schedules    map[uint]*models.Schedule
	slots        map[uint][]*models.TimeSlot // por schedule
	appointments map[uint]*models.Appointment
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		schedules:    map[uint]*models.Schedule{},
		slots:        map[uint][]*models.TimeSlot{},
		appointments: map[uint]*models.Appointment{},
		nextID:       1,
	}
}

func (f *fakeRepo) addSchedule(sch *models.Schedule) {
	f.schedules[sch.ID] = sch
}

func (f *fakeRepo) addSlot(scheduleID uint, start, end time.Time, available bool) {
	f.slots[scheduleID] = append(f.slots[scheduleID], &models.TimeSlot{
		ScheduleID: scheduleID,
		StartTime:  start,
		EndTime:    end,
		Available:  available,
	})
}

func (f *fakeRepo) slotAt(scheduleID uint, start time.Time) *models.TimeSlot {
	for _, s := range f.slots[scheduleID] {
		if s.StartTime.Equal(start) {
			return s
		}
	}
	return nil
}

// claim/release assumem o mutex já adquirido.

func (f *fakeRepo) claim(scheduleID uint, start, end time.Time) error {
	for _, s := range f.slots[scheduleID] {
		if s.StartTime.Equal(start) && s.EndTime.Equal(end) {
			if !s.Available {
				return httperr.ErrBusiness("slot_unavailable")
			}
			s.Available = false
			return nil
		}
	}
	return httperr.ErrBusiness("slot_not_found")
}

func (f *fakeRepo) release(scheduleID uint, start, end time.Time) error {
	for _, s := range f.slots[scheduleID] {
		if s.StartTime.Equal(start) && s.EndTime.Equal(end) {
			s.Available = true
			return nil
		}
	}
	return httperr.ErrBusiness("slot_not_found")
}

// -------- domain.Repository --------

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetScheduleForUser(_ context.Context, scheduleID, userID uint) (*models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sch, ok := f.schedules[scheduleID]
	if !ok || sch.UserID != userID {
		return nil, httperr.ErrBusiness("schedule_not_found")
	}
	return sch, nil
}

func (f *fakeRepo) BookSlot(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.claim(ap.ScheduleID, ap.StartTime, ap.EndTime); err != nil {
		return err
	}

	ap.ID = f.nextID
	f.nextID++
	stored := *ap
	f.appointments[ap.ID] = &stored
	return nil
}

func (f *fakeRepo) RescheduleAppointment(
	_ context.Context,
	ap *models.Appointment,
	oldStart, oldEnd time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.claim(ap.ScheduleID, ap.StartTime, ap.EndTime); err != nil {
		return err
	}
	if err := f.release(ap.ScheduleID, oldStart, oldEnd); err != nil {
		// desfaz o claim para manter tudo-ou-nada
		_ = f.release(ap.ScheduleID, ap.StartTime, ap.EndTime)
		return err
	}

	stored := *ap
	f.appointments[ap.ID] = &stored
	return nil
}

func (f *fakeRepo) ReleaseAndSave(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.release(ap.ScheduleID, ap.StartTime, ap.EndTime); err != nil {
		return err
	}

	stored := *ap
	f.appointments[ap.ID] = &stored
	return nil
}

func (f *fakeRepo) SaveAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *ap
	f.appointments[ap.ID] = &stored
	return nil
}

func (f *fakeRepo) GetAppointmentForUser(_ context.Context, appointmentID, userID uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ap, ok := f.appointments[appointmentID]
	if !ok || ap.UserID != userID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeRepo) ListAppointments(_ context.Context, userID uint, filter domain.ListFilter) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.UserID != userID {
			continue
		}
		if filter.Status != "" && ap.Status != filter.Status {
			continue
		}
		if filter.StartDate != nil && ap.StartTime.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !ap.StartTime.Before(*filter.EndDate) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

// -------- Notifier de teste --------

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) AppointmentEvent(event string, _ uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}
