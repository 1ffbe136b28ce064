package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/booking-assistant/internal/dialog"
	"github.com/wolfman30/booking-assistant/pkg/logging"
)

// Service sends booking confirmations to customers. It satisfies the
// dialogue engine's notification collaborator.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// SendConfirmation emails the customer their booking details. Demo
// bookings are labelled as such so nobody shows up to a booking the
// backend never recorded.
func (s *Service) SendConfirmation(ctx context.Context, c dialog.Confirmation) error {
	if s.email == nil {
		s.logger.Debug("email sender not configured, skipping confirmation", "booking_id", c.BookingID)
		return nil
	}

	demo := strings.HasPrefix(c.BookingID, "DEMO-")
	subject := fmt.Sprintf("Booking confirmed: %s on %s", c.BookingType, c.Date)
	if demo {
		subject = "[Demo] " + subject
	}

	msg := EmailMessage{
		To:      c.Email,
		ToName:  c.Name,
		Subject: subject,
		Body:    confirmationText(c, demo),
		HTML:    confirmationHTML(c, demo),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: confirmation send failed: %w", err)
	}

	s.logger.Info("booking confirmation sent", "to", c.Email, "booking_id", c.BookingID)
	return nil
}

func confirmationText(c dialog.Confirmation, demo bool) string {
	note := ""
	if demo {
		note = "\nThis is a demo confirmation; the booking was not stored in our system.\n"
	}
	return fmt.Sprintf(`Hi %s,

Your %s booking is confirmed.

Booking ID: %s
Date: %s
Time: %s
%s
Reply to this email if you need to make changes.

— Booking Assistant`, firstName(c.Name), c.BookingType, c.BookingID, formatDate(c.Date), c.Time, note)
}

func confirmationHTML(c dialog.Confirmation, demo bool) string {
	banner := ""
	if demo {
		banner = `<p style="background: #fef3c7; padding: 12px; border-radius: 8px; border-left: 4px solid #f59e0b;">
  This is a demo confirmation; the booking was not stored in our system.
</p>`
	}
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #10b981;">Booking Confirmed</h2>
<p>Hi <strong>%s</strong>, your <strong>%s</strong> booking is confirmed.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Booking ID:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Date:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Time:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
</table>
%s
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— Booking Assistant</p>
</div>`,
		firstName(c.Name), c.BookingType, c.BookingID, formatDate(c.Date), c.Time, banner)
}

// formatDate renders 2026-09-15 as "Tuesday, September 15, 2026". The raw
// value is kept when it does not parse.
func formatDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, January 2, 2006")
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

var _ dialog.ConfirmationSender = (*Service)(nil)
