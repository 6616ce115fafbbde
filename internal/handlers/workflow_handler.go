package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/httpresp"
	"github.com/agendafacil/api-agendamento/internal/messaging"
	"github.com/agendafacil/api-agendamento/internal/middleware"
	"github.com/agendafacil/api-agendamento/internal/models"
	"github.com/agendafacil/api-agendamento/internal/workflow"
)

type WorkflowHandler struct {
	db     *gorm.DB
	engine *workflow.Engine
}

func NewWorkflowHandler(db *gorm.DB, engine *workflow.Engine) *WorkflowHandler {
	return &WorkflowHandler{db: db, engine: engine}
}

// --------- Requests ---------

type CreateWorkflowRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required,oneof=messaging scheduling reminder notification custom"`

	Triggers []workflow.Trigger `json:"triggers" binding:"required,min=1"`
	Actions  []workflow.Action  `json:"actions" binding:"required,min=1"`
}

type ProcessMessageRequest struct {
	Platform string `json:"platform" binding:"required,oneof=whatsapp facebook instagram"`
	From     string `json:"from" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

type UpdateWorkflowRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`

	Triggers *[]workflow.Trigger `json:"triggers"`
	Actions  *[]workflow.Action  `json:"actions"`
}

// --------- Handlers ---------

func (h *WorkflowHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var workflows []models.Workflow
	if err := h.db.Where("user_id = ?", userID).
		Order("name ASC").
		Find(&workflows).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar workflows.")
		return
	}

	httpresp.List(c, workflows)
}

func (h *WorkflowHandler) Create(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	triggers, _ := json.Marshal(req.Triggers)
	actions, _ := json.Marshal(req.Actions)

	wf := models.Workflow{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Triggers:    string(triggers),
		Actions:     string(actions),
		Active:      true,
	}

	if err := h.db.Create(&wf).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao criar workflow.")
		return
	}

	httpresp.Created(c, wf)
}

func (h *WorkflowHandler) Update(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	workflowID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var wf models.Workflow
	if err := h.db.Where("id = ? AND user_id = ?", workflowID, userID).
		First(&wf).Error; err != nil {
		httperr.NotFound(c, "workflow_not_found", "Workflow não encontrado.")
		return
	}

	if req.Name != nil {
		wf.Name = *req.Name
	}
	if req.Description != nil {
		wf.Description = *req.Description
	}
	if req.Active != nil {
		wf.Active = *req.Active
	}
	if req.Triggers != nil {
		triggers, _ := json.Marshal(*req.Triggers)
		wf.Triggers = string(triggers)
	}
	if req.Actions != nil {
		actions, _ := json.Marshal(*req.Actions)
		wf.Actions = string(actions)
	}

	if err := h.db.Save(&wf).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao atualizar workflow.")
		return
	}

	httpresp.OK(c, wf)
}

func (h *WorkflowHandler) Delete(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	workflowID, ok := parseIDParam(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND user_id = ?", workflowID, userID).
		Delete(&models.Workflow{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Erro ao remover workflow.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "workflow_not_found", "Workflow não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ProcessMessage injeta uma mensagem manualmente no motor de workflows,
// útil para testar gatilhos sem depender do webhook da Meta.
func (h *WorkflowHandler) ProcessMessage(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req ProcessMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var integration models.Integration
	if err := h.db.
		Where("user_id = ? AND platform = ? AND active = ?", userID, req.Platform, true).
		First(&integration).Error; err != nil {
		httperr.NotFound(c, "integration_not_found", "Nenhuma integração ativa para a plataforma.")
		return
	}

	msg := messaging.IncomingMessage{
		Platform: req.Platform,
		From:     req.From,
		Text:     req.Text,
		Type:     "text",
	}

	if err := h.engine.ProcessIncomingMessage(c.Request.Context(), &integration, &msg); err != nil {
		httperr.Internal(c, "internal_error", "Erro ao processar mensagem.")
		return
	}

	httpresp.OK(c, gin.H{"processed": true})
}
