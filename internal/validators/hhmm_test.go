package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestHHMM(t *testing.T) {
	v := validator.New()
	if err := v.RegisterValidation("hhmm", hhmm); err != nil {
		t.Fatalf("RegisterValidation: %v", err)
	}

	cases := []struct {
		value string
		ok    bool
	}{
		{"09:00", true},
		{"23:59", true},
		{"00:00", true},
		{"9:30", false}, // hora de um dígito não é HH:MM
		{"0930", false},
		{"24:00", false},
		{"09:60", false},
		{"", false},
	}

	for _, tc := range cases {
		err := v.Var(tc.value, "hhmm")
		if tc.ok && err != nil {
			t.Errorf("hhmm(%q): esperava válido, veio %v", tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("hhmm(%q): esperava inválido", tc.value)
		}
	}
}
