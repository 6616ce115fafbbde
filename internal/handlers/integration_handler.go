package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/audit"
	"github.com/agendafacil/api-agendamento/internal/config"
	"github.com/agendafacil/api-agendamento/internal/gcal"
	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/httpresp"
	"github.com/agendafacil/api-agendamento/internal/middleware"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type IntegrationHandler struct {
	db       *gorm.DB
	config   *config.Config
	calendar *gcal.Client
	audit    *audit.Dispatcher
}

func NewIntegrationHandler(
	db *gorm.DB,
	cfg *config.Config,
	calendar *gcal.Client,
	audit *audit.Dispatcher,
) *IntegrationHandler {
	return &IntegrationHandler{db: db, config: cfg, calendar: calendar, audit: audit}
}

// --------- Requests ---------

type CreateIntegrationRequest struct {
	Platform    string `json:"platform" binding:"required,oneof=whatsapp facebook instagram"`
	Name        string `json:"name" binding:"required"`
	Credentials any    `json:"credentials" binding:"required"`
	Settings    any    `json:"settings"`
}

type UpdateIntegrationRequest struct {
	Name        *string `json:"name"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending active disabled error"`
	Credentials any     `json:"credentials"`
	Settings    any     `json:"settings"`
}

// --------- Handlers ---------

func (h *IntegrationHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var integrations []models.Integration
	if err := h.db.Where("user_id = ?", userID).
		Order("platform ASC").
		Find(&integrations).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar integrações.")
		return
	}

	httpresp.List(c, integrations)
}

func (h *IntegrationHandler) Create(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req CreateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var count int64
	h.db.Model(&models.Integration{}).
		Where("user_id = ? AND platform = ?", userID, req.Platform).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "integration_already_exists", "Já existe integração para essa plataforma.")
		return
	}

	creds, err := json.Marshal(req.Credentials)
	if err != nil {
		httperr.BadRequest(c, "invalid_credentials", "Credenciais inválidas.")
		return
	}
	settings, _ := json.Marshal(req.Settings)

	integration := models.Integration{
		UserID:        userID,
		Platform:      req.Platform,
		Name:          req.Name,
		Status:        "active",
		Credentials:   string(creds),
		Settings:      string(settings),
		WebhookURL:    fmt.Sprintf("%s/api/webhooks/meta", h.config.BaseURL),
		VerifyToken:   uuid.NewString(),
		WebhookSecret: uuid.NewString(),
	}

	if err := h.db.Create(&integration).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao criar integração.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:  &userID,
		Source:  "api",
		Message: "integration_created",
		Metadata: map[string]any{
			"integration_id": integration.ID,
			"platform":       integration.Platform,
		},
	})

	// o verify token só aparece na criação
	c.JSON(http.StatusCreated, gin.H{
		"integration":  integration,
		"verify_token": integration.VerifyToken,
		"webhook_url":  integration.WebhookURL,
	})
}

func (h *IntegrationHandler) Update(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	integrationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var integration models.Integration
	if err := h.db.Where("id = ? AND user_id = ?", integrationID, userID).
		First(&integration).Error; err != nil {
		httperr.NotFound(c, "integration_not_found", "Integração não encontrada.")
		return
	}

	if req.Name != nil {
		integration.Name = *req.Name
	}
	if req.Status != nil {
		integration.Status = *req.Status
		if *req.Status == "active" {
			integration.ErrorMessage = ""
			integration.ErrorCount = 0
		}
	}
	if req.Credentials != nil {
		creds, err := json.Marshal(req.Credentials)
		if err != nil {
			httperr.BadRequest(c, "invalid_credentials", "Credenciais inválidas.")
			return
		}
		integration.Credentials = string(creds)
	}
	if req.Settings != nil {
		settings, _ := json.Marshal(req.Settings)
		integration.Settings = string(settings)
	}

	if err := h.db.Save(&integration).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao atualizar integração.")
		return
	}

	httpresp.OK(c, integration)
}

func (h *IntegrationHandler) Delete(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	integrationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND user_id = ?", integrationID, userID).
		Delete(&models.Integration{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Erro ao remover integração.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "integration_not_found", "Integração não encontrada.")
		return
	}

	c.Status(http.StatusNoContent)
}

// --------- Google Calendar ---------

// ConnectGoogle devolve a URL de consentimento OAuth. O state carrega o id
// do usuário para o callback associar o refresh token à conta certa.
func (h *IntegrationHandler) ConnectGoogle(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	if !h.calendar.Enabled() {
		httperr.BadRequest(c, "google_not_configured", "Integração Google não configurada na instância.")
		return
	}

	state := fmt.Sprintf("%d:%s", userID, uuid.NewString())

	// state de curta duração, validado no callback
	h.db.Create(&models.EventLog{
		UserID:  &userID,
		Level:   "debug",
		Source:  "google_calendar",
		Message: "oauth_state",
		Metadata: fmt.Sprintf(`{"state":%q,"expires_at":%q}`,
			state, time.Now().Add(10*time.Minute).Format(time.RFC3339)),
	})

	c.JSON(http.StatusOK, gin.H{"auth_url": h.calendar.AuthURL(state)})
}

func (h *IntegrationHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		httperr.BadRequest(c, "invalid_callback", "Parâmetros do callback ausentes.")
		return
	}

	var userID uint
	if _, err := fmt.Sscanf(state, "%d:", &userID); err != nil || userID == 0 {
		httperr.BadRequest(c, "invalid_state", "State do OAuth inválido.")
		return
	}

	var count int64
	h.db.Model(&models.EventLog{}).
		Where("user_id = ? AND source = ? AND message = ? AND metadata LIKE ?",
			userID, "google_calendar", "oauth_state", "%"+state+"%").
		Count(&count)
	if count == 0 {
		httperr.BadRequest(c, "invalid_state", "State do OAuth inválido.")
		return
	}

	token, err := h.calendar.Exchange(c.Request.Context(), code)
	if err != nil {
		httperr.BadRequest(c, "oauth_exchange_failed", "Falha ao trocar o código de autorização.")
		return
	}
	if token.RefreshToken == "" {
		httperr.BadRequest(c, "missing_refresh_token", "Google não devolveu refresh token; revogue o acesso e tente de novo.")
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"google_calendar_connected":     true,
			"google_calendar_refresh_token": token.RefreshToken,
		}).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao salvar credenciais do Google.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:  &userID,
		Source:  "google_calendar",
		Message: "google_calendar_connected",
	})

	c.JSON(http.StatusOK, gin.H{"connected": true})
}

func (h *IntegrationHandler) DisconnectGoogle(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"google_calendar_connected":     false,
			"google_calendar_refresh_token": "",
		}).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao desconectar o Google Calendar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": false})
}
