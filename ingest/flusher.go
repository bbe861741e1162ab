package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"folio/api/metrics"
	"folio/api/models"
)

const flushTimeout = 5 * time.Second

// EventWriter appends page views to durable storage.
type EventWriter interface {
	InsertPageViews(ctx context.Context, views []models.PageView) error
}

// Flusher drains a Buffer into an EventWriter, flushing when flushThreshold
// events have accumulated or every flushInterval, whichever comes first.
type Flusher struct {
	buffer         *Buffer
	writer         EventWriter
	flushInterval  time.Duration
	flushThreshold int
	wg             sync.WaitGroup
}

func NewFlusher(buffer *Buffer, writer EventWriter, flushInterval time.Duration, flushThreshold int) *Flusher {
	return &Flusher{
		buffer:         buffer,
		writer:         writer,
		flushInterval:  flushInterval,
		flushThreshold: flushThreshold,
	}
}

// Start launches the background flush goroutine.
func (f *Flusher) Start() {
	f.wg.Add(1)
	go f.loop()
}

// Stop closes the buffer and waits until everything queued has been flushed.
func (f *Flusher) Stop() {
	f.buffer.Close()
	f.wg.Wait()
}

func (f *Flusher) loop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.flushInterval)
	defer ticker.Stop()

	batch := make([]models.PageView, 0, f.flushThreshold)

	for {
		select {
		case view := <-f.buffer.events:
			batch = append(batch, view)
			if len(batch) >= f.flushThreshold {
				f.flush(batch)
				batch = make([]models.PageView, 0, f.flushThreshold)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				f.flush(batch)
				batch = make([]models.PageView, 0, f.flushThreshold)
			}

		case <-f.buffer.closed:
			batch = f.drain(batch)
			if len(batch) > 0 {
				f.flush(batch)
			}
			return
		}
	}
}

func (f *Flusher) drain(batch []models.PageView) []models.PageView {
	for {
		select {
		case view := <-f.buffer.events:
			batch = append(batch, view)
		default:
			return batch
		}
	}
}

func (f *Flusher) flush(batch []models.PageView) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := f.writer.InsertPageViews(ctx, batch); err != nil {
		metrics.PageViewsDropped.WithLabelValues(metrics.DropWriteFailed).Add(float64(len(batch)))
		log.Error().Err(err).Int("batch_size", len(batch)).Msg("Failed to write page views")
		return
	}
	metrics.PageViewsStored.Add(float64(len(batch)))
	log.Debug().Int("total", len(batch)).Msg("Flushed page views")
}
