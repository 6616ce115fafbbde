package messaging

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// IncomingMessage é a forma normalizada de um evento de mensagem recebido
// pelo webhook da Meta, independente da plataforma de origem.
type IncomingMessage struct {
	Platform  string
	MessageID string
	From      string
	Text      string
	Timestamp string
	Type      string

	// id da conta/página Meta dona do evento (entry.id), usado para achar
	// a integração correspondente
	AccountID string
}

type metaPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Value struct {
				Messages []struct {
					ID        string `json:"id"`
					From      string `json:"from"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
		Messaging []struct {
			Timestamp int64 `json:"timestamp"`
			Sender    struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message struct {
				MID  string `json:"mid"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// ParseWebhook extrai a primeira mensagem de texto de um payload da Meta.
// Payload sem mensagem (status de entrega, reação etc.) devolve nil sem erro.
func ParseWebhook(payload []byte) (*IncomingMessage, error) {
	var p metaPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}

	if len(p.Entry) == 0 {
		return nil, nil
	}
	entry := p.Entry[0]

	switch p.Object {
	case "whatsapp_business_account":
		for _, change := range entry.Changes {
			if len(change.Value.Messages) == 0 {
				continue
			}
			msg := change.Value.Messages[0]
			return &IncomingMessage{
				Platform:  "whatsapp",
				MessageID: msg.ID,
				From:      msg.From,
				Text:      msg.Text.Body,
				Timestamp: msg.Timestamp,
				Type:      msg.Type,
				AccountID: entry.ID,
			}, nil
		}

	case "page", "instagram":
		platform := "facebook"
		if p.Object == "instagram" {
			platform = "instagram"
		}
		if len(entry.Messaging) > 0 {
			m := entry.Messaging[0]
			if m.Message.MID == "" {
				return nil, nil
			}
			msgType := "text"
			if m.Message.Text == "" {
				msgType = "other"
			}
			return &IncomingMessage{
				Platform:  platform,
				MessageID: m.Message.MID,
				From:      m.Sender.ID,
				Text:      m.Message.Text,
				Type:      msgType,
				AccountID: entry.ID,
			}, nil
		}
	}

	return nil, nil
}

// VerifySignature confere o X-Hub-Signature-256 ("sha256=<hex>") do webhook.
func VerifySignature(appSecret string, payload []byte, header string) bool {
	if appSecret == "" || header == "" {
		return false
	}

	expected := strings.TrimPrefix(header, "sha256=")

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(payload)
	computed := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(computed), []byte(expected))
}
