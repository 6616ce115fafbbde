package models

import "testing"

func TestTemplateRender(t *testing.T) {
	tpl := MessageTemplate{
		Subject: "Confirmação - {{schedule_title}}",
		Content: "Olá {{client_name}}, seu horário com {{business_name}} é {{date}} às {{time}}.",
	}

	vars := map[string]string{
		"client_name":    "Maria",
		"business_name":  "Estúdio Luz",
		"schedule_title": "Consulta",
		"date":           "10/03/2026",
		"time":           "09:00",
	}

	gotSubject := tpl.RenderSubject(vars)
	if gotSubject != "Confirmação - Consulta" {
		t.Errorf("subject %q", gotSubject)
	}

	gotContent := tpl.Render(vars)
	want := "Olá Maria, seu horário com Estúdio Luz é 10/03/2026 às 09:00."
	if gotContent != want {
		t.Errorf("content %q, esperava %q", gotContent, want)
	}
}

func TestTemplateRenderKeepsUnknownPlaceholders(t *testing.T) {
	tpl := MessageTemplate{Content: "Olá {{client_name}}, código {{codigo}}."}

	got := tpl.Render(map[string]string{"client_name": "João"})
	want := "Olá João, código {{codigo}}."
	if got != want {
		t.Errorf("content %q, esperava %q", got, want)
	}
}
