package mocks

import (
	"context"
	"hash/fnv"

	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.EmbeddingService = (*MockEmbeddingService)(nil)

// MockEmbeddingService is a mock implementation of EmbeddingService for
// testing. Embeddings are derived from a hash of the query, so the same
// query always produces the same vector.
type MockEmbeddingService struct {
	dimensions int
	failNext   bool

	// LastQuery records the most recent EmbedQuery input
	LastQuery string
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{dimensions: 1536}
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}
	m.LastQuery = query

	h := fnv.New32a()
	h.Write([]byte(query))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000) / 1000.0
	}
	return embedding, nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// SetFailNext makes the next EmbedQuery call fail
func (m *MockEmbeddingService) SetFailNext(fail bool) {
	m.failNext = fail
}
