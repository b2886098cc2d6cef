package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// MockVideoStore is a mock implementation of VideoStore for testing
type MockVideoStore struct {
	mu      sync.RWMutex
	videos  map[string]*domain.Video
	failErr error
}

// NewMockVideoStore creates a new MockVideoStore
func NewMockVideoStore() *MockVideoStore {
	return &MockVideoStore{videos: make(map[string]*domain.Video)}
}

// Add seeds a video
func (m *MockVideoStore) Add(video *domain.Video) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[video.ID] = video
}

// SetError makes every subsequent call fail with err
func (m *MockVideoStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MockVideoStore) Get(ctx context.Context, id string) (*domain.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	video, ok := m.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return video, nil
}

func (m *MockVideoStore) CreationTimes(ctx context.Context, videoIDs []string) (map[string]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	times := make(map[string]time.Time)
	for _, id := range videoIDs {
		if v, ok := m.videos[id]; ok {
			times[id] = v.CreatedAt
		}
	}
	return times, nil
}

func (m *MockVideoStore) CourseVideoIDs(ctx context.Context, courseID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var ids []string
	for _, v := range m.videos {
		if v.CourseID == courseID {
			ids = append(ids, v.ID)
		}
	}
	return ids, nil
}

func (m *MockVideoStore) CreatorVideoIDs(ctx context.Context, creatorID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var ids []string
	for _, v := range m.videos {
		if v.CreatorID == creatorID && v.Status == domain.VideoStatusReady {
			ids = append(ids, v.ID)
		}
	}
	return ids, nil
}

// MockUsageStore is a mock implementation of UsageStore for testing
type MockUsageStore struct {
	mu      sync.RWMutex
	stats   map[string]*domain.VideoUsageStats
	failErr error
}

// NewMockUsageStore creates a new MockUsageStore
func NewMockUsageStore() *MockUsageStore {
	return &MockUsageStore{stats: make(map[string]*domain.VideoUsageStats)}
}

// Add seeds usage stats for a video
func (m *MockUsageStore) Add(stats *domain.VideoUsageStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[stats.VideoID] = stats
}

// SetError makes every subsequent call fail with err
func (m *MockUsageStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MockUsageStore) UsageStats(ctx context.Context, videoIDs []string) (map[string]*domain.VideoUsageStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	result := make(map[string]*domain.VideoUsageStats)
	for _, id := range videoIDs {
		if s, ok := m.stats[id]; ok {
			result[id] = s
		}
	}
	return result, nil
}

// MockInteractionStore is a mock implementation of InteractionStore for testing
type MockInteractionStore struct {
	mu      sync.RWMutex
	history map[string]map[string][]time.Time // userID -> videoID -> timestamps
	failErr error
}

// NewMockInteractionStore creates a new MockInteractionStore
func NewMockInteractionStore() *MockInteractionStore {
	return &MockInteractionStore{history: make(map[string]map[string][]time.Time)}
}

// Add seeds an interaction for a user and video
func (m *MockInteractionStore) Add(userID, videoID string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.history[userID] == nil {
		m.history[userID] = make(map[string][]time.Time)
	}
	m.history[userID][videoID] = append(m.history[userID][videoID], at)
}

// SetError makes every subsequent call fail with err
func (m *MockInteractionStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MockInteractionStore) RecentInteractions(ctx context.Context, userID string, videoIDs []string, perVideo int) (map[string][]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	result := make(map[string][]time.Time)
	for _, id := range videoIDs {
		if ts, ok := m.history[userID][id]; ok {
			if perVideo > 0 && len(ts) > perVideo {
				ts = ts[len(ts)-perVideo:]
			}
			result[id] = ts
		}
	}
	return result, nil
}
