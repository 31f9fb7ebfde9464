package email

import (
	"strings"
	"testing"
	"time"
)

func TestVerificationCodeMessage(t *testing.T) {
	msg := VerificationCodeMessage("ada@example.com", "123456", time.Now().Add(5*time.Minute))

	if msg.To != "ada@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Text, "123456") || !strings.Contains(msg.HTML, "123456") {
		t.Fatalf("code missing from body")
	}
	if !strings.Contains(msg.Text, "5 minutes") {
		t.Fatalf("expected expiry in minutes, got %q", msg.Text)
	}
}

func TestVerificationCodeMessageNearExpiry(t *testing.T) {
	msg := VerificationCodeMessage("ada@example.com", "123456", time.Now().Add(10*time.Second))
	if !strings.Contains(msg.Text, "1 minute") {
		t.Fatalf("expiry should floor at one minute, got %q", msg.Text)
	}
}

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("ada@example.com", "654321", time.Now().Add(5*time.Minute))
	if !strings.Contains(msg.Text, "654321") {
		t.Fatalf("code missing from body")
	}
	if !strings.Contains(msg.Text, "ignore this email") {
		t.Fatalf("reset mail should tell unaffected users to ignore it")
	}
}

func TestWelcomeMessage(t *testing.T) {
	msg := WelcomeMessage("ada@example.com", "Ada")
	if !strings.Contains(msg.Text, "Ada") || !strings.Contains(msg.HTML, "Ada") {
		t.Fatalf("first name missing from body")
	}
}
