package schedule

import (
	"testing"

	"github.com/agendafacil/api-agendamento/internal/httperr"
	"github.com/agendafacil/api-agendamento/internal/models"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:30", 0, true},
		{"0930", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): esperava erro", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, esperava %d", tc.in, got, tc.want)
		}
	}
}

func TestRuleIsValid(t *testing.T) {
	if !RuleIsValid(rule(1, "09:00", "17:00")) {
		t.Error("janela normal deveria ser válida")
	}
	if RuleIsValid(rule(1, "17:00", "09:00")) {
		t.Error("início depois do fim deveria ser inválido")
	}
	if RuleIsValid(rule(1, "09:00", "09:00")) {
		t.Error("janela de largura zero deveria ser inválida")
	}
	if RuleIsValid(rule(1, "xx:yy", "17:00")) {
		t.Error("horário malformado deveria ser inválido")
	}
}

func TestValidateConfig(t *testing.T) {
	ok := []models.AvailabilityRule{rule(1, "09:00", "12:00"), rule(3, "14:00", "18:00")}
	if err := ValidateConfig(30, 5, 10, ok); err != nil {
		t.Fatalf("config válida rejeitada: %v", err)
	}

	cases := []struct {
		name         string
		duration     int
		bufferBefore int
		bufferAfter  int
		rules        []models.AvailabilityRule
	}{
		{"duração abaixo do mínimo", 4, 0, 0, ok},
		{"buffer negativo", 30, -1, 0, ok},
		{"weekday fora de 0-6", 30, 0, 0, []models.AvailabilityRule{rule(7, "09:00", "12:00")}},
		{"weekday duplicado", 30, 0, 0, []models.AvailabilityRule{
			rule(1, "09:00", "12:00"),
			rule(1, "14:00", "18:00"),
		}},
		{"regra malformada", 30, 0, 0, []models.AvailabilityRule{rule(1, "12:00", "09:00")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(tc.duration, tc.bufferBefore, tc.bufferAfter, tc.rules)
			if !httperr.IsBusiness(err, "invalid_schedule_config") {
				t.Fatalf("esperava invalid_schedule_config, veio %v", err)
			}
		})
	}
}
