package knowledge

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/wolfman30/booking-assistant/pkg/logging"
)

// Embedder turns texts into vectors. Implemented by the Bedrock Titan
// embedding client.
type Embedder interface {
	Embed(ctx context.Context, modelID string, texts []string) ([][]float32, error)
}

// Retriever exposes the query capability needed by the Q&A service.
type Retriever interface {
	Query(ctx context.Context, query string, topK int) ([]string, error)
	HasDocuments() bool
}

// Ingestor describes how service documents enter the store.
type Ingestor interface {
	AddDocument(ctx context.Context, name, content string) error
}

// chunkSize bounds how much text goes into one embedding.
const chunkSize = 1200

// MemoryStore keeps document chunks and their embeddings in memory and
// retrieves by cosine similarity.
type MemoryStore struct {
	embedder Embedder
	model    string
	logger   *logging.Logger

	mu     sync.RWMutex
	chunks []documentChunk
}

type documentChunk struct {
	document  string
	content   string
	embedding []float32
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(embedder Embedder, model string, logger *logging.Logger) *MemoryStore {
	if embedder == nil {
		panic("knowledge: embedder cannot be nil")
	}
	if model == "" {
		model = "amazon.titan-embed-text-v2:0"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemoryStore{
		embedder: embedder,
		model:    model,
		logger:   logger,
	}
}

// AddDocument splits the document into chunks, embeds them, and stores
// the results.
func (s *MemoryStore) AddDocument(ctx context.Context, name, content string) error {
	pieces := splitChunks(content, chunkSize)
	if len(pieces) == 0 {
		return errors.New("knowledge: document has no usable text")
	}

	vectors, err := s.embedder.Embed(ctx, s.model, pieces)
	if err != nil {
		return err
	}
	if len(vectors) != len(pieces) {
		return errors.New("knowledge: embedding response size mismatch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, piece := range pieces {
		s.chunks = append(s.chunks, documentChunk{
			document:  name,
			content:   piece,
			embedding: vectors[i],
		})
	}
	s.logger.Info("document indexed", "document", name, "chunks", len(pieces))
	return nil
}

// HasDocuments reports whether anything has been indexed.
func (s *MemoryStore) HasDocuments() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks) > 0
}

// Query returns the topK most similar chunks.
func (s *MemoryStore) Query(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 4
	}

	vectors, err := s.embedder.Embed(ctx, s.model, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	queryVec := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.chunks) == 0 {
		return nil, nil
	}

	type scored struct {
		score   float64
		content string
	}
	results := make([]scored, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		results = append(results, scored{
			score:   cosineSimilarity(queryVec, chunk.embedding),
			content: chunk.content,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	limit := topK
	if len(results) < limit {
		limit = len(results)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = results[i].content
	}
	return out, nil
}

// splitChunks breaks text into paragraph-aligned chunks no longer than
// maxLen. Oversized paragraphs are hard-split.
func splitChunks(text string, maxLen int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if piece := strings.TrimSpace(current.String()); piece != "" {
			chunks = append(chunks, piece)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for len(para) > maxLen {
			flush()
			chunks = append(chunks, strings.TrimSpace(para[:maxLen]))
			para = strings.TrimSpace(para[maxLen:])
		}
		if para == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(para)+2 > maxLen {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()
	return chunks
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	var normA float64
	var normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
