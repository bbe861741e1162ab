// handlers/track_handlers.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"folio/api/ingest"
	"folio/api/metrics"
	"folio/api/middleware"
	"folio/api/models"
)

type TrackHandlers struct {
	Buffer *ingest.Buffer
	now    func() time.Time
}

func NewTrackHandlers(buffer *ingest.Buffer) *TrackHandlers {
	return &TrackHandlers{Buffer: buffer, now: time.Now}
}

// TrackPageView queues one page view and answers 202 without waiting for
// storage. A full buffer drops the event silently from the caller's view.
func (h *TrackHandlers) TrackPageView(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	if c.GetBool(middleware.ContextIsBot) {
		metrics.PageViewsDropped.WithLabelValues(metrics.DropBot).Inc()
		c.Status(http.StatusAccepted)
		return
	}

	view := models.PageView{
		ID:        uuid.New().String(),
		Path:      req.Path,
		SessionID: deref(req.SessionID),
		Referrer:  deref(req.Referrer),
		CreatedAt: h.now().UTC(),
	}

	if h.Buffer.Send(view) {
		metrics.PageViewsAccepted.Inc()
	} else {
		metrics.PageViewsDropped.WithLabelValues(metrics.DropBufferFull).Inc()
		log.Warn().Str("path", view.Path).Msg("Page view buffer full, dropping event")
	}

	c.Status(http.StatusAccepted)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
