// handlers/analytics_handlers.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"folio/api/analytics"
	"folio/api/metrics"
)

const reportTimeout = 15 * time.Second

type AnalyticsHandlers struct {
	Service     *analytics.Service
	DefaultDays int
}

func NewAnalyticsHandlers(svc *analytics.Service, defaultDays int) *AnalyticsHandlers {
	return &AnalyticsHandlers{Service: svc, DefaultDays: defaultDays}
}

// GetAnalytics serves the admin traffic report for the last ?days= days.
func (h *AnalyticsHandlers) GetAnalytics(c *gin.Context) {
	start := time.Now()
	days := analytics.ParseDays(c.Query("days"), h.DefaultDays)

	ctx, cancel := context.WithTimeout(c.Request.Context(), reportTimeout)
	defer cancel()

	report, err := h.Service.ComputeAnalytics(ctx, days, c.GetHeader("Authorization"))
	if err != nil {
		status, message := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Int("days", days).Msg("Failed to compute analytics")
		}
		metrics.ReportRequests.WithLabelValues(strconv.Itoa(status)).Inc()
		c.JSON(status, gin.H{"error": message})
		return
	}

	metrics.ReportRequests.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	metrics.ReportDuration.Observe(time.Since(start).Seconds())
	c.JSON(http.StatusOK, report)
}

// statusFor maps service errors to a status code and a caller-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, analytics.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, analytics.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, analytics.ErrUpstream):
		return http.StatusInternalServerError, "Failed to fetch analytics"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}
