package ingest_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/api/ingest"
	"folio/api/models"
)

type recordingWriter struct {
	mu      sync.Mutex
	batches [][]models.PageView
	err     error
}

func (w *recordingWriter) InsertPageViews(_ context.Context, views []models.PageView) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, append([]models.PageView(nil), views...))
	return w.err
}

func (w *recordingWriter) total() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, b := range w.batches {
		n += len(b)
	}
	return n
}

func TestBuffer_SendFull(t *testing.T) {
	buf := ingest.NewBuffer(1)
	defer buf.Close()

	require.True(t, buf.Send(models.PageView{Path: "/"}))
	assert.False(t, buf.Send(models.PageView{Path: "/"}))
	assert.Equal(t, 1, buf.Len())
}

func TestBuffer_SendAfterClose(t *testing.T) {
	buf := ingest.NewBuffer(10)
	buf.Close()
	buf.Close()

	assert.False(t, buf.Send(models.PageView{Path: "/"}))
}

func TestFlusher_ThresholdFlush(t *testing.T) {
	buf := ingest.NewBuffer(100)
	w := &recordingWriter{}
	f := ingest.NewFlusher(buf, w, time.Hour, 3)
	f.Start()

	for i := 0; i < 3; i++ {
		require.True(t, buf.Send(models.PageView{Path: "/"}))
	}

	assert.Eventually(t, func() bool { return w.total() == 3 }, time.Second, 5*time.Millisecond)
	f.Stop()
}

func TestFlusher_IntervalFlush(t *testing.T) {
	buf := ingest.NewBuffer(100)
	w := &recordingWriter{}
	f := ingest.NewFlusher(buf, w, 10*time.Millisecond, 100)
	f.Start()
	defer f.Stop()

	require.True(t, buf.Send(models.PageView{Path: "/a"}))

	assert.Eventually(t, func() bool { return w.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestFlusher_StopDrains(t *testing.T) {
	buf := ingest.NewBuffer(100)
	w := &recordingWriter{}
	f := ingest.NewFlusher(buf, w, time.Hour, 100)

	for i := 0; i < 7; i++ {
		require.True(t, buf.Send(models.PageView{Path: "/"}))
	}
	f.Start()
	f.Stop()

	assert.Equal(t, 7, w.total())
}

func TestFlusher_StopKeepsEveryAcceptedEvent(t *testing.T) {
	buf := ingest.NewBuffer(10000)
	w := &recordingWriter{}
	f := ingest.NewFlusher(buf, w, time.Millisecond, 50)
	f.Start()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if buf.Send(models.PageView{Path: "/"}) {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}
		}()
	}

	time.Sleep(time.Millisecond)
	f.Stop()
	wg.Wait()

	assert.False(t, buf.Send(models.PageView{Path: "/late"}))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, accepted, w.total())
}

func TestFlusher_WriteErrorDropsBatch(t *testing.T) {
	buf := ingest.NewBuffer(100)
	w := &recordingWriter{err: errors.New("db down")}
	f := ingest.NewFlusher(buf, w, time.Hour, 2)
	f.Start()

	require.True(t, buf.Send(models.PageView{Path: "/"}))
	require.True(t, buf.Send(models.PageView{Path: "/"}))
	assert.Eventually(t, func() bool { return w.total() == 2 }, time.Second, 5*time.Millisecond)

	require.True(t, buf.Send(models.PageView{Path: "/"}))
	f.Stop()

	// One failed batch of two, then the remaining view on drain; no retries.
	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.batches, 2)
	assert.Len(t, w.batches[0], 2)
	assert.Len(t, w.batches[1], 1)
}
