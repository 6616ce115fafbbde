package workflow

import "testing"

func TestParseTriggers(t *testing.T) {
	triggers, err := ParseTriggers(`[{"event":"message_received","conditions":[{"contains_text":"agendar"}]}]`)
	if err != nil {
		t.Fatalf("ParseTriggers: %v", err)
	}
	if len(triggers) != 1 || triggers[0].Event != "message_received" {
		t.Fatalf("triggers inesperados: %+v", triggers)
	}

	if _, err := ParseTriggers(`{broken`); err == nil {
		t.Error("esperava erro para JSON inválido")
	}

	empty, err := ParseTriggers("")
	if err != nil || empty != nil {
		t.Errorf("string vazia deveria virar nil sem erro: %v %v", empty, err)
	}
}

func TestMatchesEvent(t *testing.T) {
	triggers := []Trigger{{Event: "message_received"}}

	if !Matches(triggers, "message_received", "whatsapp", "qualquer coisa") {
		t.Error("trigger sem condição deveria casar")
	}
	if Matches(triggers, "appointment_created", "whatsapp", "qualquer coisa") {
		t.Error("evento diferente não deveria casar")
	}
}

func TestMatchesConditions(t *testing.T) {
	cases := []struct {
		name     string
		cond     Condition
		platform string
		text     string
		want     bool
	}{
		{"contains casa sem case", Condition{ContainsText: "Agendar"}, "whatsapp", "quero AGENDAR amanhã", true},
		{"contains não casa", Condition{ContainsText: "cancelar"}, "whatsapp", "quero agendar", false},
		{"exact casa", Condition{ExactMatch: "menu"}, "whatsapp", "menu", true},
		{"exact é sensível a maiúsculas", Condition{ExactMatch: "menu"}, "whatsapp", "Menu", false},
		{"starts_with casa", Condition{StartsWith: "oi"}, "whatsapp", "Oi, tudo bem?", true},
		{"starts_with não casa", Condition{StartsWith: "oi"}, "whatsapp", "tudo bem, oi", false},
		{"platform casa", Condition{Platform: "whatsapp"}, "whatsapp", "x", true},
		{"platform all casa qualquer", Condition{Platform: "all"}, "instagram", "x", true},
		{"platform diferente", Condition{Platform: "facebook"}, "whatsapp", "x", false},
		{"regex casa", Condition{Regex: `agendar|marcar`}, "whatsapp", "quero MARCAR horário", true},
		{"regex inválida nunca casa", Condition{Regex: `([`}, "whatsapp", "x", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			triggers := []Trigger{{
				Event:      "message_received",
				Conditions: []Condition{tc.cond},
			}}
			got := Matches(triggers, "message_received", tc.platform, tc.text)
			if got != tc.want {
				t.Errorf("Matches = %v, esperava %v", got, tc.want)
			}
		})
	}
}

func TestMatchesAllConditionsMustHold(t *testing.T) {
	triggers := []Trigger{{
		Event: "message_received",
		Conditions: []Condition{
			{Platform: "whatsapp"},
			{ContainsText: "agendar"},
		},
	}}

	if !Matches(triggers, "message_received", "whatsapp", "quero agendar") {
		t.Error("todas as condições valem, deveria casar")
	}
	if Matches(triggers, "message_received", "facebook", "quero agendar") {
		t.Error("plataforma errada, não deveria casar")
	}
	if Matches(triggers, "message_received", "whatsapp", "oi") {
		t.Error("texto sem o termo, não deveria casar")
	}
}

func TestMatchesSecondTriggerCanMatch(t *testing.T) {
	triggers := []Trigger{
		{Event: "message_received", Conditions: []Condition{{ExactMatch: "menu"}}},
		{Event: "message_received", Conditions: []Condition{{ContainsText: "horário"}}},
	}

	if !Matches(triggers, "message_received", "whatsapp", "tem horário amanhã?") {
		t.Error("segundo trigger deveria casar")
	}
}
