package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/audit"
	"github.com/agendafacil/api-agendamento/internal/gcal"
	"github.com/agendafacil/api-agendamento/internal/mail"
	"github.com/agendafacil/api-agendamento/internal/messaging"
	"github.com/agendafacil/api-agendamento/internal/models"
	"github.com/agendafacil/api-agendamento/internal/timezone"
	usecase "github.com/agendafacil/api-agendamento/internal/usecase/appointment"
)

// Notifier materializa os eventos do agendamento em notificações reais:
// e-mail pro cliente, mensagem na plataforma de origem e sincronização
// com o Google Calendar. Tudo fora do caminho da requisição.
type Notifier struct {
	db        *gorm.DB
	mailer    *mail.Mailer
	messenger *messaging.Client
	calendar  *gcal.Client
	audit     *audit.Dispatcher
}

var _ usecase.Notifier = (*Notifier)(nil)

func New(
	db *gorm.DB,
	mailer *mail.Mailer,
	messenger *messaging.Client,
	calendar *gcal.Client,
	audit *audit.Dispatcher,
) *Notifier {
	return &Notifier{
		db:        db,
		mailer:    mailer,
		messenger: messenger,
		calendar:  calendar,
		audit:     audit,
	}
}

// Tipo de template por evento do ciclo de vida.
var templateTypeByEvent = map[string]string{
	usecase.EventCreated:     "confirmation",
	usecase.EventConfirmed:   "confirmation",
	usecase.EventRescheduled: "reschedule",
	usecase.EventCancelled:   "cancellation",
}

func (n *Notifier) AppointmentEvent(event string, appointmentID uint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := n.handle(ctx, event, appointmentID); err != nil {
			log.Error().Err(err).
				Str("event", event).
				Uint("appointment_id", appointmentID).
				Msg("falha ao notificar agendamento")
		}
	}()
}

func (n *Notifier) handle(ctx context.Context, event string, appointmentID uint) error {
	var ap models.Appointment
	if err := n.db.WithContext(ctx).
		Preload("Schedule").
		First(&ap, appointmentID).Error; err != nil {
		return err
	}

	var user models.User
	if err := n.db.WithContext(ctx).First(&user, ap.UserID).Error; err != nil {
		return err
	}

	n.sendEmail(ctx, event, &ap, &user)
	n.sendPlatformMessage(ctx, event, &ap, &user)
	n.syncCalendar(ctx, event, &ap, &user)

	return nil
}

// ------------------------------------------------------
// Templates
// ------------------------------------------------------

func (n *Notifier) findTemplate(ctx context.Context, userID uint, tplType, platform string) *models.MessageTemplate {
	var tpl models.MessageTemplate
	err := n.db.WithContext(ctx).
		Where(
			"user_id = ? AND type = ? AND active = ? AND (platform = ? OR platform = ?)",
			userID, tplType, true, platform, "all",
		).
		Order("platform DESC"). // prefere template específico da plataforma
		First(&tpl).Error
	if err != nil {
		return nil
	}
	return &tpl
}

func templateVars(ap *models.Appointment, user *models.User) map[string]string {
	loc := timezone.Location(user.Timezone)
	start := ap.StartTime.In(loc)

	business := user.BusinessName
	if business == "" {
		business = user.Name
	}

	var location string
	if ap.Schedule.LocationType == "physical" {
		location = ap.Schedule.LocationDetails
	} else {
		location = "online"
	}

	return map[string]string{
		"client_name":    ap.Client.Name,
		"business_name":  business,
		"schedule_title": ap.Schedule.Title,
		"date":           start.Format("02/01/2006"),
		"time":           start.Format("15:04"),
		"location":       location,
	}
}

// Texto padrão quando a conta não tem template configurado.
func defaultText(event string, vars map[string]string) (subject, body string) {
	when := fmt.Sprintf("%s às %s", vars["date"], vars["time"])

	switch event {
	case usecase.EventCancelled:
		return "Agendamento cancelado",
			fmt.Sprintf("Olá %s, seu agendamento de %s em %s foi cancelado.",
				vars["client_name"], vars["schedule_title"], when)
	case usecase.EventRescheduled:
		return "Agendamento remarcado",
			fmt.Sprintf("Olá %s, seu agendamento de %s foi remarcado para %s.",
				vars["client_name"], vars["schedule_title"], when)
	default:
		return "Agendamento confirmado",
			fmt.Sprintf("Olá %s, seu agendamento de %s com %s está marcado para %s.",
				vars["client_name"], vars["schedule_title"], vars["business_name"], when)
	}
}

// ------------------------------------------------------
// Canais
// ------------------------------------------------------

func (n *Notifier) sendEmail(ctx context.Context, event string, ap *models.Appointment, user *models.User) {
	if ap.Client.Email == "" {
		return
	}

	vars := templateVars(ap, user)
	subject, body := defaultText(event, vars)

	if tpl := n.findTemplate(ctx, user.ID, templateTypeByEvent[event], "email"); tpl != nil {
		body = tpl.Render(vars)
		if tpl.Subject != "" {
			subject = tpl.RenderSubject(vars)
		}
	}

	err := n.mailer.Send(user.EmailSettings, mail.Message{
		To:      ap.Client.Email,
		Subject: subject,
		Body:    body,
	})

	n.logChannel(event, ap, "email", err)
}

func (n *Notifier) sendPlatformMessage(ctx context.Context, event string, ap *models.Appointment, user *models.User) {
	platform := ap.Source
	if platform != "whatsapp" && platform != "facebook" && platform != "instagram" {
		return
	}
	if ap.ConversationID == "" {
		return
	}

	var integration models.Integration
	err := n.db.WithContext(ctx).
		Where("user_id = ? AND platform = ? AND status = ?", user.ID, platform, "active").
		First(&integration).Error
	if err != nil {
		return
	}

	var creds messaging.Credentials
	if err := json.Unmarshal([]byte(integration.Credentials), &creds); err != nil {
		n.logChannel(event, ap, platform, err)
		return
	}

	vars := templateVars(ap, user)
	_, body := defaultText(event, vars)
	if tpl := n.findTemplate(ctx, user.ID, templateTypeByEvent[event], platform); tpl != nil {
		body = tpl.Render(vars)
	}

	_, err = n.messenger.Send(ctx, platform, creds, ap.ConversationID, body)
	n.logChannel(event, ap, platform, err)
}

func (n *Notifier) syncCalendar(ctx context.Context, event string, ap *models.Appointment, user *models.User) {
	if n.calendar == nil || !n.calendar.Enabled() || !user.GoogleCalendarConnected {
		return
	}

	var err error
	switch event {
	case usecase.EventCreated:
		var eventID string
		eventID, err = n.calendar.InsertEvent(ctx, user, &ap.Schedule, ap)
		if err == nil && eventID != "" {
			n.db.WithContext(ctx).Model(ap).Update("google_event_id", eventID)
		}

	case usecase.EventRescheduled:
		err = n.calendar.UpdateEvent(ctx, user, &ap.Schedule, ap)

	case usecase.EventCancelled:
		err = n.calendar.DeleteEvent(ctx, user, &ap.Schedule, ap)
		if err == nil && ap.GoogleEventID != "" {
			n.db.WithContext(ctx).Model(ap).Update("google_event_id", "")
		}

	default:
		return
	}

	n.logChannel(event, ap, "google_calendar", err)
}

func (n *Notifier) logChannel(event string, ap *models.Appointment, channel string, err error) {
	level := "info"
	status := "sent"
	if err != nil {
		level = "warning"
		status = "failed"
		log.Warn().Err(err).
			Str("channel", channel).
			Uint("appointment_id", ap.ID).
			Msg("falha no canal de notificação")
	}

	n.audit.Dispatch(audit.Event{
		UserID:  &ap.UserID,
		Level:   level,
		Source:  "notify",
		Message: event,
		Metadata: map[string]any{
			"appointment_id": ap.ID,
			"channel":        channel,
			"status":         status,
		},
	})
}

// ------------------------------------------------------
// Lembretes (usado por internal/reminder)
// ------------------------------------------------------

// SendReminder envia o lembrete pelos canais disponíveis e devolve os
// canais em que o envio foi tentado, com o status de cada um.
func (n *Notifier) SendReminder(ctx context.Context, ap *models.Appointment) []models.AppointmentReminder {
	var user models.User
	if err := n.db.WithContext(ctx).First(&user, ap.UserID).Error; err != nil {
		return nil
	}

	vars := templateVars(ap, &user)
	now := time.Now()

	var sent []models.AppointmentReminder

	if ap.Client.Email != "" {
		subject := "Lembrete de agendamento"
		body := fmt.Sprintf("Olá %s, lembrando seu agendamento de %s amanhã, %s às %s.",
			vars["client_name"], vars["schedule_title"], vars["date"], vars["time"])

		if tpl := n.findTemplate(ctx, user.ID, "reminder", "email"); tpl != nil {
			body = tpl.Render(vars)
			if tpl.Subject != "" {
				subject = tpl.RenderSubject(vars)
			}
		}

		err := n.mailer.Send(user.EmailSettings, mail.Message{
			To:      ap.Client.Email,
			Subject: subject,
			Body:    body,
		})
		sent = append(sent, reminderRow(ap.ID, "email", err, now))
	}

	platform := ap.Source
	if (platform == "whatsapp" || platform == "facebook" || platform == "instagram") && ap.ConversationID != "" {
		var integration models.Integration
		if err := n.db.WithContext(ctx).
			Where("user_id = ? AND platform = ? AND status = ?", user.ID, platform, "active").
			First(&integration).Error; err == nil {

			var creds messaging.Credentials
			if err := json.Unmarshal([]byte(integration.Credentials), &creds); err == nil {
				body := fmt.Sprintf("Lembrete: %s, %s às %s.",
					vars["schedule_title"], vars["date"], vars["time"])
				if tpl := n.findTemplate(ctx, user.ID, "reminder", platform); tpl != nil {
					body = tpl.Render(vars)
				}

				_, err := n.messenger.Send(ctx, platform, creds, ap.ConversationID, body)
				sent = append(sent, reminderRow(ap.ID, platform, err, now))
			}
		}
	}

	return sent
}

func reminderRow(appointmentID uint, channel string, err error, at time.Time) models.AppointmentReminder {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	return models.AppointmentReminder{
		AppointmentID: appointmentID,
		Channel:       channel,
		Status:        status,
		SentAt:        at,
	}
}
