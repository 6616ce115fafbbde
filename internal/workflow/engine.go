package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/audit"
	"github.com/agendafacil/api-agendamento/internal/mail"
	"github.com/agendafacil/api-agendamento/internal/messaging"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// ======================================================
// TRIGGERS / ACTIONS (JSON em models.Workflow)
// ======================================================

type Condition struct {
	Platform     string `json:"platform,omitempty"`
	ContainsText string `json:"contains_text,omitempty"`
	ExactMatch   string `json:"exact_match,omitempty"`
	StartsWith   string `json:"starts_with,omitempty"`
	Regex        string `json:"regex,omitempty"`
}

type Trigger struct {
	Event      string      `json:"event"`
	Conditions []Condition `json:"conditions,omitempty"`
}

type Action struct {
	Type   string            `json:"type"`
	Config map[string]string `json:"config,omitempty"`
}

func ParseTriggers(raw string) ([]Trigger, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var triggers []Trigger
	err := json.Unmarshal([]byte(raw), &triggers)
	return triggers, err
}

func ParseActions(raw string) ([]Action, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var actions []Action
	err := json.Unmarshal([]byte(raw), &actions)
	return actions, err
}

// Matches verifica se algum trigger do workflow casa com o evento. Um
// trigger sem condições casa com qualquer mensagem; toda condição
// preenchida precisa valer. Regex inválida nunca casa.
func Matches(triggers []Trigger, event, platform, text string) bool {
	lower := strings.ToLower(text)

	for _, trigger := range triggers {
		if trigger.Event != event {
			continue
		}
		if len(trigger.Conditions) == 0 {
			return true
		}

		ok := true
		for _, cond := range trigger.Conditions {
			if cond.Platform != "" && cond.Platform != "all" && cond.Platform != platform {
				ok = false
				break
			}
			if cond.ContainsText != "" && !strings.Contains(lower, strings.ToLower(cond.ContainsText)) {
				ok = false
				break
			}
			if cond.ExactMatch != "" && text != cond.ExactMatch {
				ok = false
				break
			}
			if cond.StartsWith != "" && !strings.HasPrefix(lower, strings.ToLower(cond.StartsWith)) {
				ok = false
				break
			}
			if cond.Regex != "" {
				re, err := regexp.Compile("(?i)" + cond.Regex)
				if err != nil || !re.MatchString(text) {
					ok = false
					break
				}
			}
		}
		if ok {
			return true
		}
	}

	return false
}

// ======================================================
// ENGINE
// ======================================================

type Engine struct {
	db        *gorm.DB
	messenger *messaging.Client
	mailer    *mail.Mailer
	audit     *audit.Dispatcher
	http      *http.Client
}

func NewEngine(
	db *gorm.DB,
	messenger *messaging.Client,
	mailer *mail.Mailer,
	audit *audit.Dispatcher,
) *Engine {
	return &Engine{
		db:        db,
		messenger: messenger,
		mailer:    mailer,
		audit:     audit,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// ProcessIncomingMessage registra a mensagem na conversa e executa os
// workflows ativos do usuário cujo trigger message_received casar.
func (e *Engine) ProcessIncomingMessage(
	ctx context.Context,
	integration *models.Integration,
	msg *messaging.IncomingMessage,
) error {

	conv, err := e.upsertConversation(ctx, integration, msg)
	if err != nil {
		return err
	}

	var workflows []models.Workflow
	if err := e.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", integration.UserID, true).
		Find(&workflows).Error; err != nil {
		return err
	}

	for i := range workflows {
		wf := &workflows[i]

		triggers, err := ParseTriggers(wf.Triggers)
		if err != nil {
			log.Warn().Err(err).Uint("workflow_id", wf.ID).Msg("triggers inválidos")
			continue
		}
		if !Matches(triggers, "message_received", msg.Platform, msg.Text) {
			continue
		}

		e.execute(ctx, wf, integration, conv, msg)
	}

	return nil
}

func (e *Engine) upsertConversation(
	ctx context.Context,
	integration *models.Integration,
	msg *messaging.IncomingMessage,
) (*models.Conversation, error) {

	now := time.Now()

	var conv models.Conversation
	err := e.db.WithContext(ctx).
		Where(
			"user_id = ? AND platform = ? AND platform_conversation_id = ?",
			integration.UserID, msg.Platform, msg.From,
		).
		First(&conv).Error

	if err != nil {
		conv = models.Conversation{
			UserID:                 integration.UserID,
			Platform:               msg.Platform,
			PlatformConversationID: msg.From,
			Contact: models.ConversationContact{
				PlatformUserID: msg.From,
			},
			Status:        "active",
			LastMessageAt: now,
		}
		if err := e.db.WithContext(ctx).Create(&conv).Error; err != nil {
			return nil, err
		}
	} else {
		conv.LastMessageAt = now
		e.db.WithContext(ctx).Model(&conv).Update("last_message_at", now)
	}

	inbound := models.ConversationMessage{
		ConversationID: conv.ID,
		Direction:      "inbound",
		Content:        msg.Text,
		MessageID:      msg.MessageID,
		Status:         "received",
	}
	if err := e.db.WithContext(ctx).Create(&inbound).Error; err != nil {
		return nil, err
	}

	return &conv, nil
}

func (e *Engine) execute(
	ctx context.Context,
	wf *models.Workflow,
	integration *models.Integration,
	conv *models.Conversation,
	msg *messaging.IncomingMessage,
) {

	actions, err := ParseActions(wf.Actions)
	if err != nil {
		log.Warn().Err(err).Uint("workflow_id", wf.ID).Msg("actions inválidas")
		return
	}

	status := "success"
	for _, action := range actions {
		if err := e.runAction(ctx, action, integration, conv, msg); err != nil {
			status = "error"
			log.Error().Err(err).
				Uint("workflow_id", wf.ID).
				Str("action", action.Type).
				Msg("falha ao executar action")
		}
	}

	now := time.Now()
	e.db.WithContext(ctx).Model(wf).Updates(map[string]any{
		"last_executed":   now,
		"execution_count": gorm.Expr("execution_count + 1"),
	})

	e.audit.Dispatch(audit.Event{
		UserID:  &wf.UserID,
		Source:  msg.Platform,
		Message: "workflow_executed",
		Metadata: map[string]any{
			"workflow_id":   wf.ID,
			"workflow_name": wf.Name,
			"trigger":       "message_received",
			"status":        status,
		},
	})
}

func (e *Engine) runAction(
	ctx context.Context,
	action Action,
	integration *models.Integration,
	conv *models.Conversation,
	msg *messaging.IncomingMessage,
) error {

	switch action.Type {
	case "send_message":
		text := action.Config["message"]
		if text == "" {
			text = "Obrigado pela sua mensagem!"
		}

		var creds messaging.Credentials
		if err := json.Unmarshal([]byte(integration.Credentials), &creds); err != nil {
			return err
		}

		result, err := e.messenger.Send(ctx, msg.Platform, creds, msg.From, text)
		if err != nil {
			return err
		}

		outbound := models.ConversationMessage{
			ConversationID: conv.ID,
			Direction:      "outbound",
			Content:        text,
			MessageID:      result.MessageID,
			Status:         "sent",
		}
		return e.db.WithContext(ctx).Create(&outbound).Error

	case "send_email":
		if conv.Contact.Email == "" {
			return nil
		}

		var user models.User
		if err := e.db.WithContext(ctx).First(&user, integration.UserID).Error; err != nil {
			return err
		}

		return e.mailer.Send(user.EmailSettings, mail.Message{
			To:      conv.Contact.Email,
			Subject: action.Config["subject"],
			Body:    action.Config["message"],
		})

	case "webhook":
		url := action.Config["url"]
		if url == "" {
			return nil
		}

		payload, err := json.Marshal(map[string]any{
			"platform":  msg.Platform,
			"message":   msg.Text,
			"contact":   msg.From,
			"timestamp": time.Now(),
		})
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := e.http.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		return nil
	}

	log.Warn().Str("action", action.Type).Msg("action não suportada")
	return nil
}
