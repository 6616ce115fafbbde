package appointment

// Notifier recebe eventos do ciclo de vida do agendamento e dispara as
// notificações (e-mail, mensageria, Google Calendar) fora do caminho da
// requisição. Implementado em internal/notify.
type Notifier interface {
	AppointmentEvent(event string, appointmentID uint)
}

const (
	EventCreated     = "appointment_created"
	EventRescheduled = "appointment_rescheduled"
	EventConfirmed   = "appointment_confirmed"
	EventCancelled   = "appointment_cancelled"
)
