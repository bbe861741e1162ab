package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AdminStore is the administrator registry. Ordinary callers cannot read
// admin_users, so it must be built on the service role pool.
type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(serviceDB *sql.DB) *AdminStore {
	return &AdminStore{db: serviceDB}
}

// IsAdmin reports whether userID has a row in admin_users.
func (s *AdminStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM admin_users WHERE user_id = $1 LIMIT 1`, userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up admin user: %w", err)
	}
	return true, nil
}
