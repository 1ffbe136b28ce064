package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wolfman30/booking-assistant/internal/dialog"
)

type captureSender struct {
	sent []EmailMessage
	err  error
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	c.sent = append(c.sent, msg)
	return c.err
}

func sampleConfirmation() dialog.Confirmation {
	return dialog.Confirmation{
		Email:       "anna@example.com",
		Name:        "Anna Smith",
		BookingType: "spa",
		Date:        "2026-09-15",
		Time:        "14:30",
		BookingID:   "bk-42",
	}
}

func TestSendConfirmation(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, nil)

	if err := svc.SendConfirmation(context.Background(), sampleConfirmation()); err != nil {
		t.Fatalf("SendConfirmation: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.To != "anna@example.com" || msg.ToName != "Anna Smith" {
		t.Errorf("recipient = %q / %q", msg.To, msg.ToName)
	}
	if strings.HasPrefix(msg.Subject, "[Demo]") {
		t.Errorf("real booking flagged as demo: %q", msg.Subject)
	}
	for _, want := range []string{"bk-42", "Tuesday, September 15, 2026", "14:30"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q", want)
		}
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestSendConfirmationDemoBanner(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, nil)

	c := sampleConfirmation()
	c.BookingID = "DEMO-1A2B3C4D"
	if err := svc.SendConfirmation(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	msg := sender.sent[0]
	if !strings.HasPrefix(msg.Subject, "[Demo]") {
		t.Errorf("subject = %q, want demo prefix", msg.Subject)
	}
	if !strings.Contains(msg.Body, "demo confirmation") {
		t.Error("demo note missing from body")
	}
}

func TestSendConfirmationError(t *testing.T) {
	svc := NewService(&captureSender{err: errors.New("quota exceeded")}, nil)
	if err := svc.SendConfirmation(context.Background(), sampleConfirmation()); err == nil {
		t.Error("expected error")
	}
}

func TestSendConfirmationWithoutSender(t *testing.T) {
	svc := NewService(nil, nil)
	if err := svc.SendConfirmation(context.Background(), sampleConfirmation()); err != nil {
		t.Errorf("nil sender must be a no-op, got %v", err)
	}
}

func TestFormatDateFallback(t *testing.T) {
	if got := formatDate("not-a-date"); got != "not-a-date" {
		t.Errorf("formatDate = %q", got)
	}
}
