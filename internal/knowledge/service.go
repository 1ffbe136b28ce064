package knowledge

import (
	"context"
	"errors"
	"strings"

	"github.com/wolfman30/booking-assistant/internal/llm"
	"github.com/wolfman30/booking-assistant/pkg/logging"
)

const answerPrompt = `You answer customer questions about a booking business using ONLY the provided document excerpts.

Rules:
- Answer from the excerpts. Keep it short and concrete.
- If the excerpts do not cover the question, say you don't have that information and suggest asking the business directly.
- Never invent prices, hours, or policies.
`

// Service answers customer questions from indexed documents. It satisfies
// the dialogue engine's knowledge collaborator.
type Service struct {
	store  Retriever
	client llm.Client
	model  string
	topK   int
	logger *logging.Logger
}

// ServiceConfig wires the Q&A service.
type ServiceConfig struct {
	Store  Retriever
	Client llm.Client
	Model  string
	TopK   int
	Logger *logging.Logger
}

// NewService constructs the Q&A service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Store == nil {
		panic("knowledge: retriever cannot be nil")
	}
	if cfg.Client == nil {
		panic("knowledge: llm client cannot be nil")
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:  cfg.Store,
		client: cfg.Client,
		model:  cfg.Model,
		topK:   topK,
		logger: logger,
	}
}

// HasIndex reports whether any documents have been ingested.
func (s *Service) HasIndex() bool {
	return s.store.HasDocuments()
}

// Answer retrieves the most relevant chunks and asks the model to answer
// from them.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	excerpts, err := s.store.Query(ctx, question, s.topK)
	if err != nil {
		return "", err
	}
	if len(excerpts) == 0 {
		return "", errors.New("knowledge: no relevant excerpts")
	}

	var prompt strings.Builder
	prompt.WriteString("Document excerpts:\n")
	for i, excerpt := range excerpts {
		prompt.WriteString("---\n")
		prompt.WriteString(excerpt)
		if i < len(excerpts)-1 {
			prompt.WriteString("\n")
		}
	}
	prompt.WriteString("\n---\n\nQuestion: ")
	prompt.WriteString(question)

	resp, err := s.client.Complete(ctx, llm.Request{
		Model:  s.model,
		System: []string{answerPrompt},
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt.String()},
		},
		MaxTokens:   512,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		return "", errors.New("knowledge: model returned empty answer")
	}
	return answer, nil
}
