package email

import (
	"strings"
	"testing"

	"perfsvc/internal/platform/config"
)

func TestNewDisabled(t *testing.T) {
	if m := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"}); m != nil {
		t.Fatalf("expected no mailer when email is disabled")
	}
	if m := New(config.Config{EmailEnabled: true}); m != nil {
		t.Fatalf("expected no mailer without smtp host")
	}
	if m := New(config.Config{EmailEnabled: true, SMTPHost: "smtp.example.com"}); m == nil {
		t.Fatalf("expected smtp mailer")
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("perf@example.com", "ada@example.com", "Goal at risk", "body"))
	if !strings.HasPrefix(msg, "From: perf@example.com\r\nTo: ada@example.com\r\nSubject: Goal at risk\r\n") {
		t.Fatalf("unexpected headers: %q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nbody") {
		t.Fatalf("body not separated from headers: %q", msg)
	}
}
