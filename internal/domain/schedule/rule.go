package schedule

import (
	"fmt"
	"time"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

const MinDuration = 5 // minutos

// ParseClock converte "HH:MM" em minuto do dia. O formato é estrito:
// time.Parse aceitaria "9:30", mas as regras persistem sempre 5 caracteres.
func ParseClock(hm string) (int, error) {
	if len(hm) != 5 {
		return 0, fmt.Errorf("horário fora do formato HH:MM: %q", hm)
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// RuleIsValid indica se a janela da regra é utilizável pelo gerador.
func RuleIsValid(rule models.AvailabilityRule) bool {
	start, err := ParseClock(rule.StartTime)
	if err != nil {
		return false
	}
	end, err := ParseClock(rule.EndTime)
	if err != nil {
		return false
	}
	return start < end
}

// ValidateConfig valida a configuração de um Schedule na criação/edição.
// Regras malformadas são aceitas pelo gerador (ignoradas), mas rejeitadas
// aqui para nunca persistirmos disponibilidade inerte ou ambígua.
func ValidateConfig(duration, bufferBefore, bufferAfter int, rules []models.AvailabilityRule) error {
	if duration < MinDuration {
		return httperr.ErrBusiness("invalid_schedule_config")
	}
	if bufferBefore < 0 || bufferAfter < 0 {
		return httperr.ErrBusiness("invalid_schedule_config")
	}

	seen := map[int]bool{}
	for _, rule := range rules {
		if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
			return httperr.ErrBusiness("invalid_schedule_config")
		}
		// um weekday com duas janelas geraria slots sobrepostos
		if seen[rule.DayOfWeek] {
			return httperr.ErrBusiness("invalid_schedule_config")
		}
		seen[rule.DayOfWeek] = true

		if !RuleIsValid(rule) {
			return httperr.ErrBusiness("invalid_schedule_config")
		}
	}

	return nil
}
