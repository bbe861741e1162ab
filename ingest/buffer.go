// Package ingest accepts page views without blocking the request path and
// writes them to the event store in batches.
//
// Delivery is best effort. A full buffer drops the event, a failed batch is
// logged and discarded, and nothing is retried. Reports built from the store
// may therefore undercount.
package ingest

import (
	"sync"

	"folio/api/models"
)

// Buffer is a bounded channel of pending page views.
type Buffer struct {
	events chan models.PageView
	closed chan struct{}

	mu       sync.RWMutex
	isClosed bool
}

func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		events: make(chan models.PageView, capacity),
		closed: make(chan struct{}),
	}
}

// Send enqueues without blocking and returns false when the buffer is full
// or closed. An event accepted by Send is visible to the flusher's final
// drain; once Close has returned, Send always refuses.
func (b *Buffer) Send(view models.PageView) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.isClosed {
		return false
	}
	select {
	case b.events <- view:
		return true
	default:
		return false
	}
}

func (b *Buffer) Len() int {
	return len(b.events)
}

// Close stops the buffer accepting events. It waits for in-flight Sends to
// finish. Safe to call more than once.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.isClosed {
		return
	}
	b.isClosed = true
	close(b.closed)
}
