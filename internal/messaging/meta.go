package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agendafacil/api-agendamento/internal/httperr"
)

// Credentials de uma integração Meta, desserializadas de
// models.Integration.Credentials.
type Credentials struct {
	PhoneNumberID     string `json:"phone_number_id"`
	AccessToken       string `json:"access_token"`
	PageAccessToken   string `json:"page_access_token"`
	BusinessAccountID string `json:"business_account_id"`
	PageID            string `json:"page_id"`
}

// Client fala com a Graph API da Meta (WhatsApp Cloud, Messenger, Instagram).
type Client struct {
	graphURL string
	http     *http.Client
}

func NewClient(graphURL string) *Client {
	return &Client{
		graphURL: graphURL,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type SendResult struct {
	MessageID string
}

func (c *Client) SendWhatsApp(
	ctx context.Context,
	creds Credentials,
	to string,
	text string,
) (*SendResult, error) {

	body := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}

	url := fmt.Sprintf("%s/%s/messages", c.graphURL, creds.PhoneNumberID)

	var resp struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := c.post(ctx, url, creds.AccessToken, body, &resp); err != nil {
		return nil, err
	}

	result := &SendResult{}
	if len(resp.Messages) > 0 {
		result.MessageID = resp.Messages[0].ID
	}
	return result, nil
}

// SendMessenger cobre Facebook e Instagram: ambos usam /me/messages com o
// token da página.
func (c *Client) SendMessenger(
	ctx context.Context,
	creds Credentials,
	recipientID string,
	text string,
) (*SendResult, error) {

	body := map[string]any{
		"recipient": map[string]string{"id": recipientID},
		"message":   map[string]string{"text": text},
	}

	url := fmt.Sprintf("%s/me/messages?access_token=%s", c.graphURL, creds.PageAccessToken)

	var resp struct {
		MessageID string `json:"message_id"`
	}
	if err := c.post(ctx, url, "", body, &resp); err != nil {
		return nil, err
	}

	return &SendResult{MessageID: resp.MessageID}, nil
}

// Send escolhe o transporte pelo nome da plataforma.
func (c *Client) Send(
	ctx context.Context,
	platform string,
	creds Credentials,
	to string,
	text string,
) (*SendResult, error) {

	switch platform {
	case "whatsapp":
		return c.SendWhatsApp(ctx, creds, to, text)
	case "facebook", "instagram":
		return c.SendMessenger(ctx, creds, to, text)
	}
	return nil, httperr.ErrBusiness("unsupported_platform")
}

func (c *Client) post(ctx context.Context, url, bearer string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		var graphErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &graphErr) == nil && graphErr.Error.Message != "" {
			return fmt.Errorf("graph api: %s", graphErr.Error.Message)
		}
		return fmt.Errorf("graph api: status %d", resp.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}
