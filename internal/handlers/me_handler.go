package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/middleware"
	"github.com/agendafacil/api-agendamento/internal/models"
	"github.com/agendafacil/api-agendamento/internal/timezone"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

type UpdateMeRequest struct {
	Name         *string `json:"name"`
	BusinessName *string `json:"business_name"`
	Timezone     *string `json:"timezone"`

	EmailProvider  *string `json:"email_provider"`
	EmailFromEmail *string `json:"email_from_email"`
	EmailFromName  *string `json:"email_from_name"`
	SMTPHost       *string `json:"smtp_host"`
	SMTPPort       *int    `json:"smtp_port"`
	SMTPUser       *string `json:"smtp_user"`
	SMTPPass       *string `json:"smtp_pass"`
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.BusinessName != nil {
		user.BusinessName = *req.BusinessName
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_timezone"})
			return
		}
		user.Timezone = *req.Timezone
	}

	if req.EmailProvider != nil {
		user.EmailSettings.Provider = *req.EmailProvider
	}
	if req.EmailFromEmail != nil {
		user.EmailSettings.FromEmail = *req.EmailFromEmail
	}
	if req.EmailFromName != nil {
		user.EmailSettings.FromName = *req.EmailFromName
	}
	if req.SMTPHost != nil {
		user.EmailSettings.SMTPHost = *req.SMTPHost
	}
	if req.SMTPPort != nil {
		user.EmailSettings.SMTPPort = *req.SMTPPort
	}
	if req.SMTPUser != nil {
		user.EmailSettings.SMTPUser = *req.SMTPUser
	}
	if req.SMTPPass != nil {
		user.EmailSettings.SMTPPass = *req.SMTPPass
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
