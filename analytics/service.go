// analytics/service.go
package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"folio/api/models"
)

const DefaultDays = 30

// MaxDays is the widest window whose length still fits in a time.Duration.
// Larger requests are clamped to it.
const MaxDays = int(math.MaxInt64 / int64(24*time.Hour))

var (
	// ErrUnauthorized means no caller identity could be resolved from the credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller was identified but is not an administrator.
	ErrForbidden = errors.New("forbidden")
	// ErrUpstream wraps any failure reading from the event store or admin registry.
	ErrUpstream = errors.New("upstream failure")
)

// EventStore returns all page views created at or after since, oldest first.
type EventStore interface {
	Since(ctx context.Context, since time.Time) ([]models.PageView, error)
}

// AdminRegistry answers whether a subject holds admin status. Implementations
// must read with service credentials, not the caller's.
type AdminRegistry interface {
	IsAdmin(ctx context.Context, subject string) (bool, error)
}

// TokenVerifier resolves a bearer token to its subject id.
type TokenVerifier interface {
	Subject(token string) (string, error)
}

// Service computes traffic reports for administrators. It keeps no state
// between calls and is safe for concurrent use.
type Service struct {
	events EventStore
	admins AdminRegistry
	tokens TokenVerifier
	opts   Options
	now    func() time.Time
}

func NewService(events EventStore, admins AdminRegistry, tokens TokenVerifier, opts Options) *Service {
	return &Service{
		events: events,
		admins: admins,
		tokens: tokens,
		opts:   opts.withDefaults(),
		now:    time.Now,
	}
}

// WithClock replaces the wall clock; tests use it to pin the window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Authenticate resolves an Authorization header value to a subject id.
func (s *Service) Authenticate(authHeader string) (string, error) {
	token, ok := BearerToken(authHeader)
	if !ok {
		return "", ErrUnauthorized
	}
	subject, err := s.tokens.Subject(token)
	if err != nil || subject == "" {
		return "", ErrUnauthorized
	}
	return subject, nil
}

// Authorize runs both gates: the credential must resolve to a subject, and
// that subject must be in the admin registry.
func (s *Service) Authorize(ctx context.Context, authHeader string) (string, error) {
	subject, err := s.Authenticate(authHeader)
	if err != nil {
		return "", err
	}
	ok, err := s.admins.IsAdmin(ctx, subject)
	if err != nil {
		return "", fmt.Errorf("%w: admin lookup: %v", ErrUpstream, err)
	}
	if !ok {
		return subject, ErrForbidden
	}
	return subject, nil
}

// ComputeAnalytics authorizes the caller and aggregates every page view from
// the last days*24h. The report is all-or-nothing: a failed read returns no
// partial data.
func (s *Service) ComputeAnalytics(ctx context.Context, days int, authHeader string) (*models.AnalyticsReport, error) {
	subject, err := s.Authorize(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if days < 1 {
		days = DefaultDays
	}
	if days > MaxDays {
		days = MaxDays
	}

	since := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	views, err := s.events.Since(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: read page views: %v", ErrUpstream, err)
	}

	report := Aggregate(views, s.opts)
	log.Debug().
		Str("subject", subject).
		Int("days", days).
		Int("events", len(views)).
		Msg("Computed analytics report")
	return &report, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// ParseDays reads the days query parameter. Anything that is not a positive
// integer falls back to def.
func ParseDays(raw string, def int) int {
	if def < 1 {
		def = DefaultDays
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
