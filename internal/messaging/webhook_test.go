package messaging

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

const whatsappPayload = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "123456789",
		"changes": [{
			"value": {
				"messages": [{
					"id": "wamid.abc",
					"from": "5511999990000",
					"timestamp": "1700000000",
					"type": "text",
					"text": {"body": "quero agendar"}
				}]
			}
		}]
	}]
}`

const messengerPayload = `{
	"object": "page",
	"entry": [{
		"id": "987654321",
		"messaging": [{
			"timestamp": 1700000000,
			"sender": {"id": "111222333"},
			"message": {"mid": "m_abc", "text": "oi"}
		}]
	}]
}`

const statusOnlyPayload = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "123456789",
		"changes": [{"value": {"statuses": [{"id": "wamid.abc", "status": "delivered"}]}}]
	}]
}`

func TestParseWebhookWhatsApp(t *testing.T) {
	msg, err := ParseWebhook([]byte(whatsappPayload))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if msg == nil {
		t.Fatal("esperava mensagem, veio nil")
	}

	if msg.Platform != "whatsapp" {
		t.Errorf("platform %q", msg.Platform)
	}
	if msg.From != "5511999990000" {
		t.Errorf("from %q", msg.From)
	}
	if msg.Text != "quero agendar" {
		t.Errorf("text %q", msg.Text)
	}
	if msg.MessageID != "wamid.abc" {
		t.Errorf("message id %q", msg.MessageID)
	}
	if msg.AccountID != "123456789" {
		t.Errorf("account id %q", msg.AccountID)
	}
}

func TestParseWebhookMessenger(t *testing.T) {
	msg, err := ParseWebhook([]byte(messengerPayload))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if msg == nil {
		t.Fatal("esperava mensagem, veio nil")
	}

	if msg.Platform != "facebook" {
		t.Errorf("platform %q", msg.Platform)
	}
	if msg.From != "111222333" {
		t.Errorf("from %q", msg.From)
	}
	if msg.Text != "oi" {
		t.Errorf("text %q", msg.Text)
	}
	if msg.AccountID != "987654321" {
		t.Errorf("account id %q", msg.AccountID)
	}
}

func TestParseWebhookStatusEventIsIgnored(t *testing.T) {
	msg, err := ParseWebhook([]byte(statusOnlyPayload))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if msg != nil {
		t.Fatalf("evento de status deveria ser ignorado, veio %+v", msg)
	}
}

func TestParseWebhookInvalidJSON(t *testing.T) {
	if _, err := ParseWebhook([]byte("{nope")); err == nil {
		t.Fatal("esperava erro de JSON")
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "app-secret"
	payload := []byte(`{"object":"page"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	header := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature(secret, payload, header) {
		t.Error("assinatura correta rejeitada")
	}
	if VerifySignature(secret, []byte(`{"object":"other"}`), header) {
		t.Error("payload alterado aceito")
	}
	if VerifySignature(secret, payload, "sha256=deadbeef") {
		t.Error("assinatura errada aceita")
	}
	if VerifySignature("", payload, header) {
		t.Error("sem app secret deveria rejeitar")
	}
	if VerifySignature(secret, payload, "") {
		t.Error("sem header deveria rejeitar")
	}
}
