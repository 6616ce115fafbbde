package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	"github.com/agendafacil/api-agendamento/internal/models"
	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/httpresp"
	"github.com/agendafacil/api-agendamento/internal/middleware"
	ucAppointment "github.com/agendafacil/api-agendamento/internal/usecase/appointment"
)

type AppointmentHandler struct {
	createUC     *ucAppointment.CreateAppointment
	updateUC     *ucAppointment.UpdateAppointment
	cancelUC     *ucAppointment.CancelAppointment
	transitionUC *ucAppointment.TransitionAppointment
	listUC       *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	transitionUC *ucAppointment.TransitionAppointment,
	listUC *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:     createUC,
		updateUC:     updateUC,
		cancelUC:     cancelUC,
		transitionUC: transitionUC,
		listUC:       listUC,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	ScheduleID uint `json:"schedule_id" binding:"required"`

	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`

	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
	ClientPhone string `json:"client_phone"`

	Notes          string `json:"notes"`
	Source         string `json:"source" binding:"omitempty,oneof=manual website whatsapp facebook instagram"`
	ConversationID string `json:"conversation_id"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	ClientName  *string `json:"client_name"`
	ClientEmail *string `json:"client_email"`
	ClientPhone *string `json:"client_phone"`
	Notes       *string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// --------- Handlers ---------

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		UserID:         userID,
		ScheduleID:     req.ScheduleID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		Notes:          req.Notes,
		Source:         req.Source,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao criar agendamento.")
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var filter domain.ListFilter
	filter.Status = c.Query("status")

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inicial inválida (esperado YYYY-MM-DD).")
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data final inválida (esperado YYYY-MM-DD).")
			return
		}
		// fim inclusivo: o dia inteiro entra no filtro
		end := t.AddDate(0, 0, 1)
		filter.EndDate = &end
	}

	appointments, err := h.listUC.Execute(c.Request.Context(), userID, filter)
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, appointments)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	appointmentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ap, err := h.listUC.Get(c.Request.Context(), userID, appointmentID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao buscar agendamento.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	appointmentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		UserID:        userID,
		AppointmentID: appointmentID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao atualizar agendamento.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	appointmentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req) // reason é opcional

	ap, err := h.cancelUC.Execute(c.Request.Context(), userID, appointmentID, req.Reason)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao cancelar agendamento.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.transitionUC.Confirm)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.transitionUC.Complete)
}

func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.transitionUC.MarkNoShow)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, userID uint, appointmentID uint) (*models.Appointment, error),
) {
	userID := c.GetUint(middleware.ContextUserID)

	appointmentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ap, err := fn(c.Request.Context(), userID, appointmentID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao alterar status do agendamento.")
		return
	}

	httpresp.OK(c, ap)
}
