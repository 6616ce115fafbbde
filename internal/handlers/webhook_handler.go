package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/config"
	"github.com/agendafacil/api-agendamento/internal/messaging"
	"github.com/agendafacil/api-agendamento/internal/models"
	"github.com/agendafacil/api-agendamento/internal/workflow"
)

// WebhookHandler recebe os eventos da Meta (WhatsApp Cloud, Messenger,
// Instagram). A resposta é sempre 200 imediato; o processamento dos
// workflows roda em background.
type WebhookHandler struct {
	db     *gorm.DB
	config *config.Config
	engine *workflow.Engine
}

func NewWebhookHandler(db *gorm.DB, cfg *config.Config, engine *workflow.Engine) *WebhookHandler {
	return &WebhookHandler{db: db, config: cfg, engine: engine}
}

// Verify responde o desafio de subscrição do webhook. O verify_token foi
// gerado na criação da integração.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token == "" {
		c.Status(http.StatusForbidden)
		return
	}

	var count int64
	h.db.Model(&models.Integration{}).
		Where("verify_token = ?", token).
		Count(&count)
	if count == 0 {
		c.Status(http.StatusForbidden)
		return
	}

	c.String(http.StatusOK, challenge)
}

func (h *WebhookHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if !messaging.VerifySignature(h.config.Meta.AppSecret, payload, signature) {
		log.Warn().Msg("webhook com assinatura inválida descartado")
		c.Status(http.StatusForbidden)
		return
	}

	// 200 antes de processar: a Meta reenvia eventos não confirmados
	c.Status(http.StatusOK)

	go h.process(payload)
}

func (h *WebhookHandler) process(payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	msg, err := messaging.ParseWebhook(payload)
	if err != nil {
		log.Warn().Err(err).Msg("payload de webhook não reconhecido")
		return
	}
	if msg == nil {
		return
	}

	integration, err := h.findIntegration(ctx, msg)
	if err != nil {
		log.Warn().
			Str("platform", msg.Platform).
			Str("account_id", msg.AccountID).
			Msg("mensagem de webhook sem integração correspondente")
		return
	}

	if err := h.engine.ProcessIncomingMessage(ctx, integration, msg); err != nil {
		log.Error().Err(err).
			Uint("integration_id", integration.ID).
			Msg("falha ao processar mensagem recebida")

		h.db.WithContext(ctx).Model(integration).Updates(map[string]any{
			"error_message": err.Error(),
			"error_count":   gorm.Expr("error_count + 1"),
		})
	}
}

// findIntegration localiza a integração ativa dona do evento pelo id da
// conta Meta presente nas credenciais.
func (h *WebhookHandler) findIntegration(
	ctx context.Context,
	msg *messaging.IncomingMessage,
) (*models.Integration, error) {

	query := h.db.WithContext(ctx).
		Where("platform = ? AND status = ?", msg.Platform, "active")

	if msg.AccountID != "" {
		query = query.Where("credentials LIKE ?", "%"+msg.AccountID+"%")
	}

	var integration models.Integration
	if err := query.First(&integration).Error; err != nil {
		return nil, err
	}
	return &integration, nil
}
