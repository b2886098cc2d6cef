package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UsageStore = (*UsageStore)(nil)

// usageWindowDays is the trailing window for popularity aggregates
const usageWindowDays = 30

// UsageStore implements driven.UsageStore using PostgreSQL
type UsageStore struct {
	db *DB
}

// NewUsageStore creates a new UsageStore
func NewUsageStore(db *DB) *UsageStore {
	return &UsageStore{db: db}
}

// UsageStats returns trailing-30-day aggregates per video in one query.
// Videos without usage rows are absent from the map; callers treat that
// as zero usage, not an error.
func (s *UsageStore) UsageStats(ctx context.Context, videoIDs []string) (map[string]*domain.VideoUsageStats, error) {
	if len(videoIDs) == 0 {
		return map[string]*domain.VideoUsageStats{}, nil
	}

	query := `
		SELECT video_id,
		       COALESCE(SUM(view_count), 0),
		       COALESCE(SUM(interactions), 0),
		       COALESCE(AVG(completion_rate), 0)
		FROM video_usage_daily
		WHERE video_id = ANY($1)
		  AND day >= CURRENT_DATE - $2::integer
		GROUP BY video_id
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(videoIDs), usageWindowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]*domain.VideoUsageStats, len(videoIDs))
	for rows.Next() {
		entry := &domain.VideoUsageStats{}
		if err := rows.Scan(&entry.VideoID, &entry.ViewCount, &entry.Interactions, &entry.CompletionRate); err != nil {
			return nil, err
		}
		stats[entry.VideoID] = entry
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
