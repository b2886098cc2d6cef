package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// MockVectorStore is a mock implementation of VectorStore for testing.
// Candidates are seeded with fixed similarities; Search applies the
// query's threshold, allow-list and limit the way the real adapter does.
type MockVectorStore struct {
	mu         sync.RWMutex
	candidates []*domain.SearchCandidate
	dimensions int
	failErr    error

	// LastQuery records the constraints of the most recent Search call
	LastQuery domain.VectorQuery
	// SearchCalls counts Search invocations
	SearchCalls int
}

// NewMockVectorStore creates a new MockVectorStore
func NewMockVectorStore() *MockVectorStore {
	return &MockVectorStore{dimensions: 1536}
}

// Seed replaces the candidate pool returned by Search
func (m *MockVectorStore) Seed(candidates []*domain.SearchCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = candidates
}

// SetError makes every subsequent Search fail with err
func (m *MockVectorStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MockVectorStore) Search(ctx context.Context, embedding []float32, q domain.VectorQuery) ([]*domain.SearchCandidate, error) {
	m.mu.Lock()
	m.LastQuery = q
	m.SearchCalls++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failErr != nil {
		return nil, m.failErr
	}

	allowed := make(map[string]bool, len(q.VideoIDs))
	for _, id := range q.VideoIDs {
		allowed[id] = true
	}

	var results []*domain.SearchCandidate
	for _, c := range m.candidates {
		if c.Similarity < q.SimilarityThreshold {
			continue
		}
		if len(allowed) > 0 && !allowed[c.Chunk.VideoID] {
			continue
		}
		results = append(results, c)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

func (m *MockVectorStore) Dimensions() int {
	return m.dimensions
}

func (m *MockVectorStore) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failErr
}
