package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/config"
	"github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/models"
	"github.com/agendafacil/api-agendamento/internal/notify"
)

// Scheduler roda periodicamente e dispara lembretes para agendamentos
// ativos dentro da janela de antecedência, no máximo um lembrete por
// agendamento.
type Scheduler struct {
	db       *gorm.DB
	notifier *notify.Notifier
	cfg      config.ReminderConfig
	cron     *cron.Cron
}

func NewScheduler(db *gorm.DB, notifier *notify.Notifier, cfg config.ReminderConfig) *Scheduler {
	return &Scheduler{
		db:       db,
		notifier: notifier,
		cfg:      cfg,
		cron:     cron.New(),
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s.Run(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info().Str("cron", s.cfg.CronSpec).Int("lead_hours", s.cfg.LeadTimeHr).
		Msg("scheduler de lembretes iniciado")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Run processa uma rodada de lembretes. Exposto para testes e para o
// disparo manual via API.
func (s *Scheduler) Run(ctx context.Context) {
	now := time.Now()
	until := now.Add(time.Duration(s.cfg.LeadTimeHr) * time.Hour)

	reminded := s.db.Model(&models.AppointmentReminder{}).
		Select("appointment_id")

	var due []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Schedule").
		Where("status IN ?", []string{
			string(appointment.StatusScheduled),
			string(appointment.StatusConfirmed),
		}).
		Where("start_time > ? AND start_time <= ?", now, until).
		Where("id NOT IN (?)", reminded).
		Find(&due).Error
	if err != nil {
		log.Error().Err(err).Msg("falha ao buscar agendamentos para lembrete")
		return
	}

	for i := range due {
		ap := &due[i]

		rows := s.notifier.SendReminder(ctx, ap)
		if len(rows) == 0 {
			continue
		}

		if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
			log.Error().Err(err).Uint("appointment_id", ap.ID).
				Msg("falha ao registrar lembrete")
		}
	}

	if len(due) > 0 {
		log.Info().Int("count", len(due)).Msg("lembretes processados")
	}
}
