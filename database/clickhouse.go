package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/rs/zerolog/log"

	"folio/api/config"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

func NewClickHouseDB(cfg config.ClickHouseConfig) (*ClickHouseClient, error) {
	if cfg.Host == "" || cfg.NativePort == 0 || cfg.Database == "" {
		return nil, fmt.Errorf("clickhouse host, native port and database are required")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.NativePort)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "folio-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Info().Str("addr", options.Addr[0]).Msg("Connected to ClickHouse")
	return &ClickHouseClient{Conn: conn}, nil
}

func (c *ClickHouseClient) Ping(ctx context.Context) error {
	return c.Conn.Ping(ctx)
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		if err := c.Conn.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing ClickHouse connection")
			return
		}
		log.Info().Msg("ClickHouse connection closed")
	}
}
