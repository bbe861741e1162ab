package tracker_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/api/models"
	"folio/api/tracker"
)

func TestSessionProvider_GeneratesOnceAndPersists(t *testing.T) {
	store := tracker.NewMemorySessionStore()
	p := tracker.NewSessionProvider(store)

	first := p.ID()
	require.NotEmpty(t, first)
	assert.Equal(t, first, p.ID())

	stored, ok := store.Get(tracker.SessionKey)
	assert.True(t, ok)
	assert.Equal(t, first, stored)
}

func TestSessionProvider_ReusesExisting(t *testing.T) {
	store := tracker.NewMemorySessionStore()
	store.Set(tracker.SessionKey, "existing")

	assert.Equal(t, "existing", tracker.NewSessionProvider(store).ID())
}

func TestSessionProvider_SeparateStoresSeparateIDs(t *testing.T) {
	a := tracker.NewSessionProvider(tracker.NewMemorySessionStore()).ID()
	b := tracker.NewSessionProvider(tracker.NewMemorySessionStore()).ID()
	assert.NotEqual(t, a, b)
}

func TestClient_Track(t *testing.T) {
	got := make(chan models.TrackRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body models.TrackRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		got <- body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	store := tracker.NewMemorySessionStore()
	store.Set(tracker.SessionKey, "sess-1")
	c := tracker.NewClient(srv.URL, tracker.NewSessionProvider(store), srv.Client())

	<-c.Track("/essays/hello?ref=x", "https://t.co/abc")

	select {
	case body := <-got:
		assert.Equal(t, "/essays/hello?ref=x", body.Path)
		require.NotNil(t, body.Referrer)
		assert.Equal(t, "https://t.co/abc", *body.Referrer)
		require.NotNil(t, body.SessionID)
		assert.Equal(t, "sess-1", *body.SessionID)
	case <-time.After(time.Second):
		t.Fatal("page view was not delivered")
	}
}

func TestClient_TrackSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close()

	c := tracker.NewClient(srv.URL, tracker.NewSessionProvider(tracker.NewMemorySessionStore()), nil)

	select {
	case <-c.Track("/", ""):
	case <-time.After(10 * time.Second):
		t.Fatal("Track did not finish")
	}
}
