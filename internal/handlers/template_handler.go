package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/httpresp"
	"github.com/agendafacil/api-agendamento/internal/middleware"
	"github.com/agendafacil/api-agendamento/internal/models"
)

type TemplateHandler struct {
	db *gorm.DB
}

func NewTemplateHandler(db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{db: db}
}

// --------- Requests ---------

type CreateTemplateRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=confirmation reminder cancellation reschedule follow-up custom"`
	Platform string `json:"platform" binding:"required,oneof=email whatsapp facebook instagram all"`
	Subject  string `json:"subject"`
	Content  string `json:"content" binding:"required"`
}

type UpdateTemplateRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type" binding:"omitempty,oneof=confirmation reminder cancellation reschedule follow-up custom"`
	Platform *string `json:"platform" binding:"omitempty,oneof=email whatsapp facebook instagram all"`
	Subject  *string `json:"subject"`
	Content  *string `json:"content"`
	Active   *bool   `json:"active"`
}

type PreviewTemplateRequest struct {
	Variables map[string]string `json:"variables"`
}

// --------- Handlers ---------

func (h *TemplateHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	query := h.db.Where("user_id = ?", userID)
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if p := c.Query("platform"); p != "" {
		query = query.Where("platform = ?", p)
	}

	var templates []models.MessageTemplate
	if err := query.Order("name ASC").Find(&templates).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao listar templates.")
		return
	}

	httpresp.List(c, templates)
}

func (h *TemplateHandler) Create(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	tpl := models.MessageTemplate{
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		Platform: req.Platform,
		Subject:  req.Subject,
		Content:  req.Content,
		Active:   true,
	}

	if err := h.db.Create(&tpl).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao criar template.")
		return
	}

	httpresp.Created(c, tpl)
}

func (h *TemplateHandler) Update(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	templateID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var tpl models.MessageTemplate
	if err := h.db.Where("id = ? AND user_id = ?", templateID, userID).
		First(&tpl).Error; err != nil {
		httperr.NotFound(c, "template_not_found", "Template não encontrado.")
		return
	}

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.Type != nil {
		tpl.Type = *req.Type
	}
	if req.Platform != nil {
		tpl.Platform = *req.Platform
	}
	if req.Subject != nil {
		tpl.Subject = *req.Subject
	}
	if req.Content != nil {
		tpl.Content = *req.Content
	}
	if req.Active != nil {
		tpl.Active = *req.Active
	}

	if err := h.db.Save(&tpl).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro ao atualizar template.")
		return
	}

	httpresp.OK(c, tpl)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	templateID, ok := parseIDParam(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND user_id = ?", templateID, userID).
		Delete(&models.MessageTemplate{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Erro ao remover template.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "template_not_found", "Template não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}

// Preview renderiza o template com as variáveis informadas, sem enviar nada.
func (h *TemplateHandler) Preview(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	templateID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PreviewTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var tpl models.MessageTemplate
	if err := h.db.Where("id = ? AND user_id = ?", templateID, userID).
		First(&tpl).Error; err != nil {
		httperr.NotFound(c, "template_not_found", "Template não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject": tpl.RenderSubject(req.Variables),
		"content": tpl.Render(req.Variables),
	})
}
