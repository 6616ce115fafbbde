package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/httpresp"
	"github.com/agendafacil/api-agendamento/internal/messaging"
	"github.com/agendafacil/api-agendamento/internal/middleware"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type ConversationHandler struct {
	db        *gorm.DB
	messenger *messaging.Client
}

func NewConversationHandler(db *gorm.DB, messenger *messaging.Client) *ConversationHandler {
	return &ConversationHandler{db: db, messenger: messenger}
}

// --------- Handlers ---------

func (h *ConversationHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	query := h.db.Where("user_id = ?", userID)
	if p := c.Query("platform"); p != "" {
		query = query.Where("platform = ?", p)
	}
	if s := c.Query("status"); s != "" {
		query = query.Where("status = ?", s)
	}

	var conversations []models.Conversation
	if err := query.Order("last_message_at DESC").
		Find(&conversations).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar conversas.")
		return
	}

	httpresp.List(c, conversations)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	conversationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var conv models.Conversation
	if err := h.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ? AND user_id = ?", conversationID, userID).
		First(&conv).Error; err != nil {
		httperr.NotFound(c, "conversation_not_found", "Conversa não encontrada.")
		return
	}

	httpresp.OK(c, conv)
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage responde manualmente numa conversa existente, usando a
// integração ativa da plataforma.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	conversationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var conv models.Conversation
	if err := h.db.Where("id = ? AND user_id = ?", conversationID, userID).
		First(&conv).Error; err != nil {
		httperr.NotFound(c, "conversation_not_found", "Conversa não encontrada.")
		return
	}

	var integration models.Integration
	if err := h.db.Where("user_id = ? AND platform = ? AND status = ?",
		userID, conv.Platform, "active").
		First(&integration).Error; err != nil {
		httperr.BadRequest(c, "integration_not_active", "Integração da plataforma não está ativa.")
		return
	}

	var creds messaging.Credentials
	if err := json.Unmarshal([]byte(integration.Credentials), &creds); err != nil {
		httperr.Internal(c, "internal_error", "Credenciais da integração inválidas.")
		return
	}

	result, err := h.messenger.Send(
		c.Request.Context(),
		conv.Platform,
		creds,
		conv.PlatformConversationID,
		req.Content,
	)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "send_failed", "Falha ao enviar mensagem.")
		return
	}

	msg := models.ConversationMessage{
		ConversationID: conv.ID,
		Direction:      "outbound",
		Content:        req.Content,
		MessageID:      result.MessageID,
		Status:         "sent",
	}
	if err := h.db.Create(&msg).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao registrar mensagem.")
		return
	}

	h.db.Model(&conv).Update("last_message_at", time.Now())

	httpresp.Created(c, msg)
}
