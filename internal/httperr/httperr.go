package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// statusFor mapeia códigos de negócio para o status HTTP equivalente.
// Todo erro de negócio é recuperável pelo cliente; nenhum derruba a API.
var statusFor = map[string]int{
	"invalid_range":           http.StatusBadRequest,
	"invalid_schedule_config": http.StatusBadRequest,
	"invalid_state":           http.StatusBadRequest,
	"schedule_not_found":      http.StatusNotFound,
	"appointment_not_found":   http.StatusNotFound,
	"slot_not_found":          http.StatusNotFound,
	"slot_unavailable":        http.StatusConflict,
	"time_conflict":           http.StatusConflict,
}

var messageFor = map[string]string{
	"invalid_range":           "Data inicial posterior à data final.",
	"invalid_schedule_config": "Configuração de agenda inválida.",
	"invalid_state":           "Transição de status não permitida.",
	"schedule_not_found":      "Agenda não encontrada.",
	"appointment_not_found":   "Agendamento não encontrado.",
	"slot_not_found":          "Horário não encontrado na agenda.",
	"slot_unavailable":        "Horário já reservado.",
	"time_conflict":           "Conflito de horário.",
}

// WriteBusiness responde um BusinessError com o status mapeado; devolve
// false quando err não é um erro de negócio (caller trata como interno).
func WriteBusiness(c *gin.Context, err error) bool {
	be, ok := AsBusiness(err)
	if !ok {
		return false
	}

	status, ok := statusFor[be.Code]
	if !ok {
		status = http.StatusBadRequest
	}
	message, ok := messageFor[be.Code]
	if !ok {
		message = "Operação não permitida."
	}

	Write(c, status, be.Code, message)
	return true
}
