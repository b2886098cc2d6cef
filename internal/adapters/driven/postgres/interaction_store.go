package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.InteractionStore = (*InteractionStore)(nil)

// InteractionStore implements driven.InteractionStore using PostgreSQL
type InteractionStore struct {
	db *DB
}

// NewInteractionStore creates a new InteractionStore
func NewInteractionStore(db *DB) *InteractionStore {
	return &InteractionStore{db: db}
}

// RecentInteractions returns up to perVideo interaction timestamps for
// the user against each requested video, most recent first. One batched
// query for all videos.
func (s *InteractionStore) RecentInteractions(ctx context.Context, userID string, videoIDs []string, perVideo int) (map[string][]time.Time, error) {
	if len(videoIDs) == 0 {
		return map[string][]time.Time{}, nil
	}
	if perVideo <= 0 {
		perVideo = 10
	}

	query := `
		SELECT video_id, created_at
		FROM (
			SELECT video_id, created_at,
			       ROW_NUMBER() OVER (PARTITION BY video_id ORDER BY created_at DESC) AS rn
			FROM video_interactions
			WHERE user_id = $1 AND video_id = ANY($2)
		) ranked
		WHERE rn <= $3
		ORDER BY video_id, created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, pq.Array(videoIDs), perVideo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make(map[string][]time.Time)
	for rows.Next() {
		var videoID string
		var at time.Time
		if err := rows.Scan(&videoID, &at); err != nil {
			return nil, err
		}
		history[videoID] = append(history[videoID], at)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
