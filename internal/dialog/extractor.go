package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/booking-assistant/internal/llm"
	"github.com/wolfman30/booking-assistant/pkg/logging"
)

// Fields maps field names to candidate values produced by extraction.
type Fields map[Field]string

// EntityExtractor fills booking fields from free text on a best-effort
// basis. An error means extraction was unavailable this turn; callers
// collapse that to an empty mapping at the merge boundary.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) (Fields, error)
}

// ErrExtractionUnavailable is returned when the language model could not
// produce a usable mapping. It is never surfaced to the end user.
var ErrExtractionUnavailable = errors.New("dialog: entity extraction unavailable")

const extractorPrompt = `You extract booking details from a customer message.

Return ONLY a JSON object with exactly these six keys:
{"name":null,"email":null,"phone":null,"booking_type":null,"date":null,"time":null}

Rules:
- Use null for any detail the message does not state.
- "booking_type" is the requested service as a single word.
- "date" must be formatted YYYY-MM-DD, "time" as 24-hour HH:MM.
- Do not add keys, comments, or any text outside the JSON object.
`

// LLMExtractor delegates entity extraction to a completion model with a
// fixed instruction template.
type LLMExtractor struct {
	client  llm.Client
	model   string
	timeout time.Duration
	logger  *logging.Logger
}

// LLMExtractorConfig configures the extractor call boundary.
type LLMExtractorConfig struct {
	Model   string
	Timeout time.Duration
}

// NewLLMExtractor constructs an extractor around an LLM client.
func NewLLMExtractor(client llm.Client, cfg LLMExtractorConfig, logger *logging.Logger) *LLMExtractor {
	if client == nil {
		panic("dialog: extractor llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LLMExtractor{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger,
	}
}

// Extract asks the model for the six-key JSON mapping. A hung call is cut
// off by the timeout and reported as unavailable, the same as a transport
// or parse failure.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (Fields, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Complete(callCtx, llm.Request{
		Model:  e.model,
		System: []string{extractorPrompt},
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: text},
		},
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil {
		e.logger.Warn("entity extraction call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}

	fields, err := parseExtractorPayload(resp.Text)
	if err != nil {
		e.logger.Warn("entity extraction returned unparseable payload", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	return fields, nil
}

type extractorPayload struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	BookingType *string `json:"booking_type"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
}

// parseExtractorPayload tolerates fenced responses and leading chatter but
// rejects anything that is not a JSON object.
func parseExtractorPayload(raw string) (Fields, error) {
	text := extractJSONObject(stripCodeFence(raw))
	if text == "" || !strings.HasPrefix(text, "{") {
		return nil, errors.New("dialog: extractor response is not a JSON object")
	}

	var payload extractorPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("dialog: extractor response parse: %w", err)
	}

	fields := make(Fields)
	put := func(f Field, v *string) {
		if v == nil {
			return
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" && !strings.EqualFold(trimmed, "null") {
			fields[f] = trimmed
		}
	}
	put(FieldName, payload.Name)
	put(FieldEmail, payload.Email)
	put(FieldPhone, payload.Phone)
	put(FieldBookingType, payload.BookingType)
	put(FieldDate, payload.Date)
	put(FieldTime, payload.Time)
	return fields, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func extractJSONObject(text string) string {
	if strings.HasPrefix(text, "{") {
		return text
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
