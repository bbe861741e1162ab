// tracker/client.go
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"folio/api/models"
)

const defaultTimeout = 5 * time.Second

// Client reports page views to the ingestion endpoint. Delivery is best
// effort: Track never blocks the caller and failures are not retried.
type Client struct {
	endpoint string
	sessions *SessionProvider
	http     *http.Client
	timeout  time.Duration
}

func NewClient(endpoint string, sessions *SessionProvider, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		endpoint: endpoint,
		sessions: sessions,
		http:     httpClient,
		timeout:  defaultTimeout,
	}
}

// Track sends a page view in the background. The returned channel is closed
// once the attempt finishes; callers are free to ignore it.
func (c *Client) Track(path, referrer string) <-chan struct{} {
	done := make(chan struct{})
	req := models.TrackRequest{Path: path}
	if referrer != "" {
		req.Referrer = &referrer
	}
	sid := c.sessions.ID()
	req.SessionID = &sid

	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := c.send(ctx, req); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("Page view not delivered")
		}
	}()
	return done
}

func (c *Client) send(ctx context.Context, body models.TrackRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode page view: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post page view: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("ingestion endpoint returned %d", resp.StatusCode)
	}
	return nil
}
