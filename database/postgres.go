package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

type DBClient struct {
	DB   *sql.DB
	name string
}

// NewPostgresDB opens and pings a pool. name labels the role in logs
// ("app" or "service").
func NewPostgresDB(dbURL, name string) (*DBClient, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("%s database url is empty", name)
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("error opening %s database connection: %w", name, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the %s database (ping failed): %w", name, err)
	}

	log.Info().Str("role", name).Msg("Connected to PostgreSQL")
	return &DBClient{DB: db, name: name}, nil
}

// Ping is used by the health endpoint.
func (c *DBClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *DBClient) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Error().Err(err).Str("role", c.name).Msg("Error closing database connection")
		} else {
			log.Info().Str("role", c.name).Msg("PostgreSQL connection closed")
		}
	}
}
