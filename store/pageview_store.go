// store/pageview_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"folio/api/models"
)

const (
	// pageViewColumns is the number of columns inserted per page view row.
	pageViewColumns = 5

	// insertBatchSize caps rows per INSERT statement.
	insertBatchSize = 100
)

// PageViewStore reads and appends page_views rows in PostgreSQL. It must be
// built on the service role pool.
type PageViewStore struct {
	db *sql.DB
}

func NewPageViewStore(db *sql.DB) *PageViewStore {
	return &PageViewStore{db: db}
}

// Since returns every page view with created_at >= since, oldest first.
func (s *PageViewStore) Since(ctx context.Context, since time.Time) ([]models.PageView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, session_id, referrer, created_at
		FROM page_views
		WHERE created_at >= $1
		ORDER BY created_at ASC
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query page views: %w", err)
	}
	defer rows.Close()

	views := make([]models.PageView, 0)
	for rows.Next() {
		var (
			v         models.PageView
			sessionID sql.NullString
			referrer  sql.NullString
		)
		if err := rows.Scan(&v.Path, &sessionID, &referrer, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page view: %w", err)
		}
		v.SessionID = sessionID.String
		v.Referrer = referrer.String
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page views: %w", err)
	}

	return views, nil
}

// InsertPageViews appends views in chunks of insertBatchSize rows.
func (s *PageViewStore) InsertPageViews(ctx context.Context, views []models.PageView) error {
	for start := 0; start < len(views); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(views) {
			end = len(views)
		}
		if err := s.insertChunk(ctx, views[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PageViewStore) insertChunk(ctx context.Context, views []models.PageView) error {
	if len(views) == 0 {
		return nil
	}

	args := make([]any, 0, len(views)*pageViewColumns)
	var sb strings.Builder
	sb.WriteString("INSERT INTO page_views (id, path, session_id, referrer, created_at) VALUES ")

	for i, v := range views {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * pageViewColumns
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, v.ID, v.Path, nullable(v.SessionID), nullable(v.Referrer), v.CreatedAt.UTC())
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert page views: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
