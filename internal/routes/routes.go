package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/audit"
	"github.com/agendafacil/api-agendamento/internal/cache"
	"github.com/agendafacil/api-agendamento/internal/config"
	"github.com/agendafacil/api-agendamento/internal/gcal"
	"github.com/agendafacil/api-agendamento/internal/handlers"
	infraRepo "github.com/agendafacil/api-agendamento/internal/infra/repository"
	"github.com/agendafacil/api-agendamento/internal/mail"
	"github.com/agendafacil/api-agendamento/internal/messaging"
	"github.com/agendafacil/api-agendamento/internal/middleware"
	"github.com/agendafacil/api-agendamento/internal/notify"
	"github.com/agendafacil/api-agendamento/internal/reminder"
	ucAppointment "github.com/agendafacil/api-agendamento/internal/usecase/appointment"
	ucSchedule "github.com/agendafacil/api-agendamento/internal/usecase/schedule"
	"github.com/agendafacil/api-agendamento/internal/workflow"
)

// RegisterRoutes monta toda a árvore de rotas e devolve o scheduler de
// lembretes já configurado (o main decide quando iniciá-lo).
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) *reminder.Scheduler {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	rdb := cache.NewRedis(cfg)
	slotCache := cache.NewSlotCache(rdb)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	mailer := mail.New(cfg.SMTP)
	messenger := messaging.NewClient(cfg.Meta.GraphURL)
	calendar := gcal.NewClient(cfg.Google)

	notifier := notify.New(db, mailer, messenger, calendar, auditDispatcher)
	engine := workflow.NewEngine(db, messenger, mailer, auditDispatcher)

	// ======================================================
	// USE CASES - SCHEDULES
	// ======================================================
	createScheduleUC := ucSchedule.NewCreateSchedule(scheduleRepo, auditDispatcher)
	updateScheduleUC := ucSchedule.NewUpdateSchedule(scheduleRepo, auditDispatcher)
	generateSlotsUC := ucSchedule.NewGenerateSlots(scheduleRepo, slotCache, auditDispatcher)
	listSlotsUC := ucSchedule.NewListSlots(scheduleRepo, slotCache)

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		slotCache,
		notifier,
		auditDispatcher,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		appointmentRepo,
		slotCache,
		notifier,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		slotCache,
		notifier,
		auditDispatcher,
	)

	transitionAppointmentUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		notifier,
		auditDispatcher,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	scheduleHandler := handlers.NewScheduleHandler(
		db,
		scheduleRepo,
		createScheduleUC,
		updateScheduleUC,
		generateSlotsUC,
		listSlotsUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		cancelAppointmentUC,
		transitionAppointmentUC,
		listAppointmentsUC,
	)

	integrationHandler := handlers.NewIntegrationHandler(db, cfg, calendar, auditDispatcher)
	templateHandler := handlers.NewTemplateHandler(db)
	workflowHandler := handlers.NewWorkflowHandler(db, engine)
	conversationHandler := handlers.NewConversationHandler(db, messenger)
	webhookHandler := handlers.NewWebhookHandler(db, cfg, engine)
	eventLogsHandler := handlers.NewEventLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// WEBHOOKS (sem auth; assinados)
		// ------------------------------
		api.GET("/webhooks/meta", webhookHandler.Verify)
		api.POST("/webhooks/meta", webhookHandler.Receive)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// callback do OAuth chega sem o token da API
		api.GET("/integrations/google/callback", integrationHandler.GoogleCallback)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)

			// ------------------------------
			// SCHEDULES + SLOTS
			// ------------------------------
			secured.POST("/schedules", scheduleHandler.Create)
			secured.GET("/schedules", scheduleHandler.List)
			secured.GET("/schedules/:id", scheduleHandler.Get)
			secured.PATCH("/schedules/:id", scheduleHandler.Update)
			secured.DELETE("/schedules/:id", scheduleHandler.Delete)

			secured.POST("/schedules/:id/slots/generate", scheduleHandler.GenerateSlots)
			secured.GET("/schedules/:id/slots", scheduleHandler.ListSlots)
			secured.GET("/schedules/:id/export.ics", scheduleHandler.ExportICS)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.MarkNoShow)

			// ------------------------------
			// INTEGRATIONS
			// ------------------------------
			secured.GET("/integrations", integrationHandler.List)
			secured.POST("/integrations", integrationHandler.Create)
			secured.PATCH("/integrations/:id", integrationHandler.Update)
			secured.DELETE("/integrations/:id", integrationHandler.Delete)

			secured.POST("/integrations/google/connect", integrationHandler.ConnectGoogle)
			secured.POST("/integrations/google/disconnect", integrationHandler.DisconnectGoogle)

			// ------------------------------
			// TEMPLATES
			// ------------------------------
			secured.GET("/templates", templateHandler.List)
			secured.POST("/templates", templateHandler.Create)
			secured.PATCH("/templates/:id", templateHandler.Update)
			secured.DELETE("/templates/:id", templateHandler.Delete)
			secured.POST("/templates/:id/preview", templateHandler.Preview)

			// ------------------------------
			// WORKFLOWS
			// ------------------------------
			secured.GET("/workflows", workflowHandler.List)
			secured.POST("/workflows", workflowHandler.Create)
			secured.PATCH("/workflows/:id", workflowHandler.Update)
			secured.DELETE("/workflows/:id", workflowHandler.Delete)
			secured.POST("/workflows/process-message", workflowHandler.ProcessMessage)

			// ------------------------------
			// CONVERSATIONS
			// ------------------------------
			secured.GET("/conversations", conversationHandler.List)
			secured.GET("/conversations/:id", conversationHandler.Get)
			secured.POST("/conversations/:id/messages", conversationHandler.SendMessage)

			secured.GET("/event-logs", eventLogsHandler.List)
		}
	}

	return reminder.NewScheduler(db, notifier, cfg.Reminder)
}
