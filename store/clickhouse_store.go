// store/clickhouse_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"folio/api/database"
	"folio/api/models"
)

// ClickHouseEventStore keeps page views in a ClickHouse MergeTree table.
// Missing session ids and referrers are stored as empty strings.
type ClickHouseEventStore struct {
	DB *database.ClickHouseClient
}

func NewClickHouseEventStore(chClient *database.ClickHouseClient) *ClickHouseEventStore {
	return &ClickHouseEventStore{DB: chClient}
}

func (s *ClickHouseEventStore) InsertPageViews(ctx context.Context, views []models.PageView) error {
	if len(views) == 0 {
		return nil
	}

	// Column order must match the page_views table.
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO page_views (id, path, session_id, referrer, created_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, v := range views {
		if err := batch.Append(v.ID, v.Path, v.SessionID, v.Referrer, v.CreatedAt.UTC()); err != nil {
			log.Warn().Err(err).Str("id", v.ID).Msg("Error appending page view to batch")
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Debug().Int("count", len(views)).Msg("Inserted page views into ClickHouse")
	return nil
}

func (s *ClickHouseEventStore) Since(ctx context.Context, since time.Time) ([]models.PageView, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT path, session_id, referrer, created_at
		FROM page_views
		WHERE created_at >= ?
		ORDER BY created_at ASC
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query page views: %w", err)
	}
	defer rows.Close()

	views := make([]models.PageView, 0)
	for rows.Next() {
		var v models.PageView
		if err := rows.Scan(&v.Path, &v.SessionID, &v.Referrer, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page view: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page views: %w", err)
	}

	return views, nil
}
