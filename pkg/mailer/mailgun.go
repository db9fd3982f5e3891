package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"

	"github.com/buynowhq/buynow-backend/pkg/config"
)

const sendTimeout = 10 * time.Second

// Sender is the surface services depend on; fakes implement it in tests.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Mailgun delivers transactional email through the Mailgun API.
type Mailgun struct {
	domain string
	apiKey string
	sender string
}

// NewMailgun validates the configuration and returns a Mailgun sender.
func NewMailgun(cfg config.MailgunConfig) (*Mailgun, error) {
	if cfg.Domain == "" || cfg.APIKey == "" {
		return nil, errors.New("mailgun domain and api key are required")
	}
	return &Mailgun{domain: cfg.Domain, apiKey: cfg.APIKey, sender: cfg.Sender}, nil
}

// Send delivers one email. html is optional; when provided it becomes the HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	client := mg.NewMailgun(m.domain, m.apiKey)
	msg := client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// PasswordResetMessage renders the subject and body for a reset email.
func PasswordResetMessage(resetURL string) (subject, text string) {
	subject = "Password Recovery"
	text = fmt.Sprintf("Your password reset link is:\n\n%s\n\nIf you have not requested this email, please ignore it.", resetURL)
	return subject, text
}
