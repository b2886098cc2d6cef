package mocks

import (
	"sync"
	"time"
)

// MockObserver is a mock implementation of SearchObserver for testing
type MockObserver struct {
	mu           sync.Mutex
	CacheHits    int
	CacheMisses  int
	Searches     int
	LastTook     time.Duration
	LastCount    int
	Truncations  int
	TotalDropped int
}

// NewMockObserver creates a new MockObserver
func NewMockObserver() *MockObserver {
	return &MockObserver{}
}

func (m *MockObserver) CacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockObserver) CacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockObserver) SearchCompleted(took time.Duration, resultCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches++
	m.LastTook = took
	m.LastCount = resultCount
}

func (m *MockObserver) ContextTruncated(droppedChunks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Truncations++
	m.TotalDropped += droppedChunks
}
