package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/httpresp"
	"github.com/agendafacil/api-agendamento/internal/middleware"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type EventLogsHandler struct {
	db *gorm.DB
}

func NewEventLogsHandler(db *gorm.DB) *EventLogsHandler {
	return &EventLogsHandler{db: db}
}

func (h *EventLogsHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	query := h.db.Where("user_id = ?", userID)
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}

	var logs []models.EventLog
	if err := query.Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar eventos.")
		return
	}

	httpresp.List(c, logs)
}
