package validators

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// hhmm valida campos de horário "HH:MM" usados nas regras de disponibilidade.
// Estrito como o domínio: "9:30" não passa.
func hhmm(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != 5 {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

// RegisterBindings instala validações customizadas no engine do gin.
func RegisterBindings() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hhmm", hhmm)
	}
}
