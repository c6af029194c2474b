package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendgridMailEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendgridMailer sends account notifications via the SendGrid v3 API.
type SendgridMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
	client    *http.Client
}

// NewSendgridMailer creates a mailer with the given API key and sender.
func NewSendgridMailer(apiKey, fromEmail, fromName string) *SendgridMailer {
	return &SendgridMailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendWelcome sends the account creation notification.
func (m *SendgridMailer) SendWelcome(ctx context.Context, name, email string) error {
	subject := fmt.Sprintf("Account creation - %s", name)
	body := fmt.Sprintf("Hi %s, Thanks for creating an account. Let us know how you feel about it", name)
	return m.send(ctx, email, subject, body)
}

// SendCancellation sends the account deletion notification.
func (m *SendgridMailer) SendCancellation(ctx context.Context, name, email string) error {
	body := fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name)
	return m.send(ctx, email, "Sorry to see you go!", body)
}

func (m *SendgridMailer) send(ctx context.Context, to, subject, text string) error {
	payload := sgMailPayload{
		Personalizations: []sgPersonalization{{
			To: []sgAddress{{Email: to}},
		}},
		From:    sgAddress{Email: m.fromEmail, Name: m.fromName},
		Subject: subject,
		Content: []sgContent{{Type: "text/plain", Value: text}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridMailEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendGrid v3 Mail Send API payload types.
type sgMailPayload struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
