package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"folio/api/handlers"
	"folio/api/ingest"
	"folio/api/middleware"
)

func setupTrackRouter(t *testing.T, capacity int) (*gin.Engine, *ingest.Buffer) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	buf := ingest.NewBuffer(capacity)
	h := handlers.NewTrackHandlers(buf)

	r := gin.New()
	r.POST("/functions/v1/track-pageview", middleware.BotFilter(), h.TrackPageView)
	return r, buf
}

func post(r http.Handler, body, userAgent string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/track-pageview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrackPageView_Queues(t *testing.T) {
	r, buf := setupTrackRouter(t, 10)
	defer buf.Close()

	w := post(r, `{"path":"/essays/a?x=1","referrer":"https://google.com","session_id":"s1"}`, "Mozilla/5.0")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, buf.Len())
}

func TestTrackPageView_NullFields(t *testing.T) {
	r, buf := setupTrackRouter(t, 10)
	defer buf.Close()

	w := post(r, `{"path":"/","referrer":null,"session_id":null}`, "Mozilla/5.0")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, buf.Len())
}

func TestTrackPageView_RejectsMissingPath(t *testing.T) {
	r, buf := setupTrackRouter(t, 10)
	defer buf.Close()

	assert.Equal(t, http.StatusBadRequest, post(r, `{"path":"  "}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, post(r, `not json`, "").Code)
	assert.Zero(t, buf.Len())
}

func TestTrackPageView_BufferFullStillAccepted(t *testing.T) {
	r, buf := setupTrackRouter(t, 1)
	defer buf.Close()

	assert.Equal(t, http.StatusAccepted, post(r, `{"path":"/a"}`, "Mozilla/5.0").Code)
	assert.Equal(t, http.StatusAccepted, post(r, `{"path":"/b"}`, "Mozilla/5.0").Code)
	assert.Equal(t, 1, buf.Len())
}

func TestTrackPageView_BotsNotRecorded(t *testing.T) {
	r, buf := setupTrackRouter(t, 10)
	defer buf.Close()

	w := post(r, `{"path":"/"}`, "Mozilla/5.0 (compatible; Googlebot/2.1)")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Zero(t, buf.Len())
}
