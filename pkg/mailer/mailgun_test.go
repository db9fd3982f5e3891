package mailer

import (
	"strings"
	"testing"

	"github.com/buynowhq/buynow-backend/pkg/config"
)

func TestNewMailgunRequiresCredentials(t *testing.T) {
	if _, err := NewMailgun(config.MailgunConfig{Domain: "mg.example.com"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewMailgun(config.MailgunConfig{APIKey: "key"}); err == nil {
		t.Fatal("expected error for missing domain")
	}
	m, err := NewMailgun(config.MailgunConfig{Domain: "mg.example.com", APIKey: "key", Sender: "no-reply@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m == nil {
		t.Fatal("expected sender instance")
	}
}

func TestPasswordResetMessage(t *testing.T) {
	subject, text := PasswordResetMessage("https://buynow.shop/password/reset/abc123")
	if subject != "Password Recovery" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(text, "https://buynow.shop/password/reset/abc123") {
		t.Fatalf("body should contain the reset link, got %q", text)
	}
	if !strings.Contains(text, "ignore it") {
		t.Fatalf("body should contain the ignore notice, got %q", text)
	}
}
