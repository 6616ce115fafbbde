package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domainAppointment "github.com/agendafacil/api-agendamento/internal/domain/appointment"
	domainSchedule "github.com/agendafacil/api-agendamento/internal/domain/schedule"
	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/httpresp"
	"github.com/agendafacil/api-agendamento/internal/middleware"
	"github.com/agendafacil/api-agendamento/internal/models"
	ucSchedule "github.com/agendafacil/api-agendamento/internal/usecase/schedule"
)

type ScheduleHandler struct {
	db   *gorm.DB
	repo domainSchedule.Repository

	createUC   *ucSchedule.CreateSchedule
	updateUC   *ucSchedule.UpdateSchedule
	generateUC *ucSchedule.GenerateSlots
	listUC     *ucSchedule.ListSlots
}

func NewScheduleHandler(
	db *gorm.DB,
	repo domainSchedule.Repository,
	createUC *ucSchedule.CreateSchedule,
	updateUC *ucSchedule.UpdateSchedule,
	generateUC *ucSchedule.GenerateSlots,
	listUC *ucSchedule.ListSlots,
) *ScheduleHandler {
	return &ScheduleHandler{
		db:         db,
		repo:       repo,
		createUC:   createUC,
		updateUC:   updateUC,
		generateUC: generateUC,
		listUC:     listUC,
	}
}

// --------- Requests ---------

type CreateScheduleRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Duration     int    `json:"duration" binding:"required,min=5"`
	BufferBefore int    `json:"buffer_before" binding:"min=0"`
	BufferAfter  int    `json:"buffer_after" binding:"min=0"`

	LocationType    string `json:"location_type" binding:"omitempty,oneof=virtual physical phone"`
	LocationDetails string `json:"location_details"`
	Color           string `json:"color"`

	Availability []ucSchedule.RuleInput `json:"availability" binding:"required,dive"`
}

type UpdateScheduleRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Duration     *int    `json:"duration"`
	BufferBefore *int    `json:"buffer_before"`
	BufferAfter  *int    `json:"buffer_after"`

	LocationType    *string `json:"location_type"`
	LocationDetails *string `json:"location_details"`
	Color           *string `json:"color"`
	Active          *bool   `json:"active"`

	Availability *[]ucSchedule.RuleInput `json:"availability" binding:"omitempty,dive"`
}

type GenerateSlotsRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// --------- Handlers ---------

func (h *ScheduleHandler) Create(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	sch, err := h.createUC.Execute(c.Request.Context(), ucSchedule.CreateScheduleInput{
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		Duration:        req.Duration,
		BufferBefore:    req.BufferBefore,
		BufferAfter:     req.BufferAfter,
		LocationType:    req.LocationType,
		LocationDetails: req.LocationDetails,
		Color:           req.Color,
		Availability:    req.Availability,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao criar agenda.")
		return
	}

	httpresp.Created(c, sch)
}

func (h *ScheduleHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	schedules, err := h.repo.ListSchedules(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar agendas.")
		return
	}

	httpresp.List(c, schedules)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	scheduleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sch, err := h.repo.GetScheduleForUser(c.Request.Context(), scheduleID, userID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao buscar agenda.")
		return
	}

	httpresp.OK(c, sch)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	scheduleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	sch, err := h.updateUC.Execute(c.Request.Context(), ucSchedule.UpdateScheduleInput{
		UserID:          userID,
		ScheduleID:      scheduleID,
		Title:           req.Title,
		Description:     req.Description,
		Duration:        req.Duration,
		BufferBefore:    req.BufferBefore,
		BufferAfter:     req.BufferAfter,
		LocationType:    req.LocationType,
		LocationDetails: req.LocationDetails,
		Color:           req.Color,
		Active:          req.Active,
		Availability:    req.Availability,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao atualizar agenda.")
		return
	}

	httpresp.OK(c, sch)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	scheduleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.repo.DeleteSchedule(c.Request.Context(), scheduleID, userID); err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao remover agenda.")
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateSlots expande as regras semanais da agenda no intervalo pedido.
// As datas chegam como "2006-01-02" e são interpretadas no timezone da conta;
// o fim do intervalo é inclusivo (o último dia inteiro entra na grade).
func (h *ScheduleHandler) GenerateSlots(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	scheduleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao buscar conta.")
		return
	}
	loc := locationFromUser(&user)

	rangeStart, err := parseDateInUser(&user, req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inicial inválida (esperado YYYY-MM-DD).")
		return
	}
	rangeEnd, err := parseDateInUser(&user, req.EndDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data final inválida (esperado YYYY-MM-DD).")
		return
	}

	slots, err := h.generateUC.Execute(c.Request.Context(), ucSchedule.GenerateSlotsInput{
		UserID:     userID,
		ScheduleID: scheduleID,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Location:   loc,
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao gerar horários.")
		return
	}

	httpresp.List(c, slots)
}

func (h *ScheduleHandler) ListSlots(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	scheduleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	onlyAvailable := c.Query("available") == "true"

	slots, err := h.listUC.Execute(c.Request.Context(), userID, scheduleID, onlyAvailable)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao listar horários.")
		return
	}

	httpresp.List(c, slots)
}

// ExportICS exporta os agendamentos ativos da agenda em formato iCalendar.
func (h *ScheduleHandler) ExportICS(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	scheduleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sch, err := h.repo.GetScheduleForUser(c.Request.Context(), scheduleID, userID)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao buscar agenda.")
		return
	}

	var appointments []models.Appointment
	if err := h.db.
		Where("schedule_id = ? AND status IN ?", sch.ID, []string{
			string(domainAppointment.StatusScheduled),
			string(domainAppointment.StatusConfirmed),
		}).
		Order("start_time ASC").
		Find(&appointments).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar agendamentos.")
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//AgendaFacil//Agenda//PT")
	cal.SetName(sch.Title)

	for i := range appointments {
		ap := &appointments[i]

		ev := cal.AddEvent(fmt.Sprintf("appointment-%d@agendafacil", ap.ID))
		ev.SetCreatedTime(ap.CreatedAt)
		ev.SetDtStampTime(ap.CreatedAt)
		ev.SetStartAt(ap.StartTime)
		ev.SetEndAt(ap.EndTime)
		ev.SetSummary(fmt.Sprintf("%s - %s", sch.Title, ap.Client.Name))
		if ap.Notes != "" {
			ev.SetDescription(ap.Notes)
		}
		if sch.LocationType == "physical" && sch.LocationDetails != "" {
			ev.SetLocation(sch.LocationDetails)
		}
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule-%d.ics", sch.ID))
	c.String(http.StatusOK, cal.Serialize())
}

// --------- Helpers ---------

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
