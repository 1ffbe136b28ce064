package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/booking-assistant/internal/observability/metrics"
	"github.com/wolfman30/booking-assistant/pkg/logging"
)

// KnowledgeBase answers domain questions from previously ingested
// documents. Answer is called only when HasIndex reports true.
type KnowledgeBase interface {
	HasIndex() bool
	Answer(ctx context.Context, question string) (string, error)
}

// CustomerRegistry creates or finds the customer row for a confirmed
// booking.
type CustomerRegistry interface {
	CreateCustomer(ctx context.Context, name, email, phone string) (string, error)
}

// BookingRegistry persists a confirmed booking and returns its identifier.
type BookingRegistry interface {
	CreateBooking(ctx context.Context, customerID, bookingType, date, tm string) (string, error)
}

// Confirmation carries everything the notification needs.
type Confirmation struct {
	Email       string
	Name        string
	BookingType string
	Date        string
	Time        string
	BookingID   string
}

// ConfirmationSender delivers the booking confirmation to the customer.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}

// Engine drives the booking dialogue. Given one inbound message it
// produces exactly one reply and the mutated session.
type Engine struct {
	validator *Validator
	extractor EntityExtractor
	knowledge KnowledgeBase
	customers CustomerRegistry
	bookings  BookingRegistry
	notifier  ConfirmationSender
	sessions  SessionStore
	metrics   *metrics.DialogMetrics
	logger    *logging.Logger
}

// EngineConfig wires the engine's collaborators. Validator and Sessions
// are required; every other collaborator is optional and the engine
// degrades gracefully without it.
type EngineConfig struct {
	Validator *Validator
	Extractor EntityExtractor
	Knowledge KnowledgeBase
	Customers CustomerRegistry
	Bookings  BookingRegistry
	Notifier  ConfirmationSender
	Sessions  SessionStore
	Metrics   *metrics.DialogMetrics
	Logger    *logging.Logger
}

// NewEngine constructs the dialogue engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Sessions == nil {
		panic("dialog: session store is required")
	}
	validator := cfg.Validator
	if validator == nil {
		validator = NewValidator()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		validator: validator,
		extractor: cfg.Extractor,
		knowledge: cfg.Knowledge,
		customers: cfg.Customers,
		bookings:  cfg.Bookings,
		notifier:  cfg.Notifier,
		sessions:  cfg.Sessions,
		metrics:   cfg.Metrics,
		logger:    logger,
	}
}

const (
	msgEmptyInput = "Please type something so I can help you."

	msgWelcome = `Welcome to the AI Booking Assistant!

I can help you book: hotels, doctor appointments, restaurant tables, spa and salon visits, events, and classes.

Just tell me what you'd like, e.g. "book hotel" or "book spa massage".`

	msgCancelled = `Booking cancelled. Say "book [service]" to start again!`

	msgUploadFirst = "I don't have any service documents to answer from yet. Please upload your documents first, then ask me again."
)

// fieldPrompts phrases each missing field with its expected format.
var fieldPrompts = map[Field]string{
	FieldName:        "your full name (first and last)",
	FieldEmail:       "your email address (like name@example.com)",
	FieldPhone:       "your phone number (10-15 digits)",
	FieldBookingType: "the service you'd like to book (hotel, doctor, restaurant, spa, salon, event, or class)",
	FieldDate:        "the date (YYYY-MM-DD)",
	FieldTime:        "the time (HH:MM, 24-hour)",
}

// HandleMessage runs one conversation turn: load the session, apply the
// transition rules, persist the mutated session, reply.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, text string) (string, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveTurnLatency(time.Since(start).Seconds())
	}()

	session, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("dialog: load session: %w", err)
	}
	if session == nil {
		session = NewSession(sessionID)
	}

	reply, branch := e.turn(ctx, session, text)
	e.metrics.ObserveTurn(branch)

	if err := e.sessions.Put(ctx, session); err != nil {
		return "", fmt.Errorf("dialog: save session: %w", err)
	}
	return reply, nil
}

// turn applies the priority-ordered transition rules. The first matching
// branch wins and short-circuits the rest.
func (e *Engine) turn(ctx context.Context, session *Session, text string) (reply, branch string) {
	record := &session.Record

	// 1. Empty input.
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return msgEmptyInput, "empty"
	}

	d := Classify(trimmed)

	// 2. A loose field match that fails strict validation rejects the whole
	// turn with a corrective message; nothing merges.
	validated := make(Fields)
	for _, f := range []Field{FieldEmail, FieldPhone, FieldDate, FieldTime} {
		candidate, ok := d.Candidates[f]
		if !ok {
			continue
		}
		value, corrective := e.validator.Validate(f, candidate)
		if corrective != "" {
			return corrective, "invalid"
		}
		validated[f] = value
	}

	// 3. Greeting, at most once per conversation.
	if d.Greeting && !record.Greeted {
		record.Greeted = true
		return msgWelcome, "greeting"
	}

	// 4. Cancel resets everything.
	if d.Cancel {
		record.Reset()
		session.State = StateFresh
		return msgCancelled, "cancel"
	}

	// 5. Domain questions go to the document Q&A collaborator.
	if d.Knowledge && e.knowledge != nil {
		if !e.knowledge.HasIndex() {
			return msgUploadFirst, "knowledge_no_index"
		}
		answer, err := e.knowledge.Answer(ctx, trimmed)
		if err == nil {
			return answer, "knowledge"
		}
		e.logger.Warn("document q&a failed, continuing with booking flow", "error", err)
	}

	// 6. Merge: extractor fills what the deterministic scan missed, and
	// deterministic detections win any per-field conflict. Nothing ever
	// overwrites an already-recorded field, and every value passes the
	// same validator regardless of source.
	merged := e.merge(ctx, record, d, validated, trimmed)

	// A bare single-token name attempt gets a corrective ask instead of a
	// silent drop.
	if !merged && d.NameTooShort && record.Name == "" {
		return MsgNeedFullName, "need_full_name"
	}

	// 7. Keep collecting while fields are missing.
	missing := record.Missing()
	if len(missing) > 0 {
		session.State = StateCollecting
		return e.collectingPrompt(d, record, missing), "collecting"
	}

	// 8. Everything present and the user confirmed: commit.
	if d.Confirm {
		reply := e.commit(ctx, *record)
		record.Reset()
		session.State = StateFresh
		return reply, "commit"
	}

	// 9. Everything present, not confirmed: show the review summary until
	// the user says yes or cancel.
	session.State = StateReview
	return reviewSummary(record), "review"
}

// merge applies extractor output then deterministic detections to the
// record. Returns true when at least one field was written this turn.
func (e *Engine) merge(ctx context.Context, record *Record, d Detection, validated Fields, text string) bool {
	extracted := e.extract(ctx, text)

	wrote := false
	write := func(f Field, value string) {
		if value == "" || record.Get(f) != "" {
			return
		}
		record.Set(f, value)
		wrote = true
	}

	// Deterministic detections claim their fields first.
	claimed := make(map[Field]bool)
	for f, value := range validated {
		write(f, value)
		claimed[f] = true
	}
	if d.ServiceType != "" {
		if value, corrective := e.validator.Validate(FieldBookingType, d.ServiceType); corrective == "" {
			write(FieldBookingType, value)
			claimed[FieldBookingType] = true
		}
	}
	if d.Name != "" && record.Name == "" {
		if value, corrective := e.validator.Validate(FieldName, d.Name); corrective == "" {
			write(FieldName, value)
			claimed[FieldName] = true
		}
	}

	// Extractor output fills only unclaimed fields, and invalid values are
	// dropped silently rather than rejected with a corrective message.
	for f, candidate := range extracted {
		if claimed[f] {
			continue
		}
		value, corrective := e.validator.Validate(f, candidate)
		if corrective != "" {
			e.logger.Debug("dropping invalid extractor value", "field", string(f))
			continue
		}
		write(f, value)
	}

	return wrote
}

// extract calls the entity extractor and collapses any failure to an
// empty mapping. Extraction problems are logged and counted, never shown
// to the user.
func (e *Engine) extract(ctx context.Context, text string) Fields {
	if e.extractor == nil {
		return nil
	}
	fields, err := e.extractor.Extract(ctx, text)
	if err != nil {
		e.metrics.ObserveExtractionFailure()
		e.logger.Warn("entity extraction degraded to empty mapping", "error", err)
		return nil
	}
	return fields
}

// collectingPrompt asks for up to 3 missing fields with their formats.
func (e *Engine) collectingPrompt(d Detection, record *Record, missing []Field) string {
	var b strings.Builder
	if d.BookingIntent && record.BookingType != "" {
		fmt.Fprintf(&b, "Great, let's book your %s!\n\n", record.BookingType)
	}
	b.WriteString("I still need a few details:\n")
	limit := len(missing)
	if limit > 3 {
		limit = 3
	}
	for _, f := range missing[:limit] {
		fmt.Fprintf(&b, "- %s\n", fieldPrompts[f])
	}
	return strings.TrimRight(b.String(), "\n")
}

// reviewSummary shows all six fields and asks for a yes/cancel.
func reviewSummary(record *Record) string {
	return fmt.Sprintf(`Here's what I have:

Name: %s
Email: %s
Phone: %s
Service: %s
Date: %s
Time: %s

Reply "yes" to confirm or "cancel" to start over.`,
		record.Name, record.Email, record.Phone, record.BookingType, record.Date, record.Time)
}

// commit invokes the persistence and notification collaborators in order.
// Any backend failure falls back to a demo confirmation: the conversation
// always reaches closure, and the failure is logged for operators.
func (e *Engine) commit(ctx context.Context, record Record) string {
	bookingID, persisted := e.persistBooking(ctx, record)
	if persisted {
		e.metrics.ObserveCommit("persisted")
	} else {
		e.metrics.ObserveCommit("demo")
	}

	if e.notifier != nil {
		err := e.notifier.SendConfirmation(ctx, Confirmation{
			Email:       record.Email,
			Name:        record.Name,
			BookingType: record.BookingType,
			Date:        record.Date,
			Time:        record.Time,
			BookingID:   bookingID,
		})
		if err != nil {
			e.logger.Warn("confirmation email failed", "error", err, "booking_id", bookingID)
		}
	}

	return fmt.Sprintf(`Booking confirmed!

Booking ID: %s
Customer: %s
%s on %s at %s

Say "book [service]" for your next booking.`,
		bookingID, record.Name, record.BookingType, record.Date, record.Time)
}

// persistBooking returns the booking id and whether the backend write
// succeeded. When it did not, the id is a demo placeholder.
func (e *Engine) persistBooking(ctx context.Context, record Record) (string, bool) {
	if e.customers == nil || e.bookings == nil {
		return demoBookingID(), false
	}

	customerID, err := e.customers.CreateCustomer(ctx, record.Name, record.Email, record.Phone)
	if err != nil {
		e.logger.Error("customer creation failed, using demo booking", "error", err)
		return demoBookingID(), false
	}

	bookingID, err := e.bookings.CreateBooking(ctx, customerID, record.BookingType, record.Date, record.Time)
	if err != nil {
		e.logger.Error("booking creation failed, using demo booking", "error", err)
		return demoBookingID(), false
	}

	return bookingID, true
}

func demoBookingID() string {
	return "DEMO-" + strings.ToUpper(uuid.NewString()[:8])
}
