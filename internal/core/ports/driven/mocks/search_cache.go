package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// MockSearchCache is an in-memory mock of SearchCache for testing.
// TTLs are honored against the wall clock.
type MockSearchCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	byVideo map[string][]string // videoID -> keys
	failErr error

	// Hits and Misses count Get outcomes
	Hits   int
	Misses int
}

type cacheEntry struct {
	results   []*domain.RankedResult
	expiresAt time.Time
}

// NewMockSearchCache creates a new MockSearchCache
func NewMockSearchCache() *MockSearchCache {
	return &MockSearchCache{
		entries: make(map[string]cacheEntry),
		byVideo: make(map[string][]string),
	}
}

// SetError makes every subsequent call fail with err
func (m *MockSearchCache) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MockSearchCache) Get(ctx context.Context, key string) ([]*domain.RankedResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		m.Misses++
		return nil, domain.ErrNotFound
	}
	m.Hits++
	return entry.results, nil
}

func (m *MockSearchCache) Set(ctx context.Context, key string, results []*domain.RankedResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.entries[key] = cacheEntry{results: results, expiresAt: time.Now().Add(ttl)}
	for _, res := range results {
		videoID := res.Candidate.Chunk.VideoID
		m.byVideo[videoID] = append(m.byVideo[videoID], key)
	}
	return nil
}

func (m *MockSearchCache) InvalidateVideo(ctx context.Context, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	for _, key := range m.byVideo[videoID] {
		delete(m.entries, key)
	}
	delete(m.byVideo, videoID)
	return nil
}

func (m *MockSearchCache) InvalidateAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.entries = make(map[string]cacheEntry)
	m.byVideo = make(map[string][]string)
	return nil
}

func (m *MockSearchCache) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failErr
}

// Len returns the number of live entries
func (m *MockSearchCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.entries {
		if time.Now().Before(e.expiresAt) {
			n++
		}
	}
	return n
}
