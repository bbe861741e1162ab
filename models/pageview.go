// models/pageview.go
package models

import "time"

// PageView is a single recorded navigation. Rows are append-only; nothing in
// this service updates or deletes them.
type PageView struct {
	ID        string    `json:"id,omitempty"`
	Path      string    `json:"path"`
	SessionID string    `json:"sessionId,omitempty"` // empty when the browser sent none
	Referrer  string    `json:"referrer,omitempty"`  // empty for direct navigation
	CreatedAt time.Time `json:"createdAt"`
}

// TrackRequest is the body accepted by the ingestion endpoint. Field names match
// what the site's page tracker posts.
type TrackRequest struct {
	Path      string  `json:"path"`
	Referrer  *string `json:"referrer"`
	SessionID *string `json:"session_id"`
}
