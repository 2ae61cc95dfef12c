package queue

import (
	"context"
	"sync"
)

type MemoryQueue struct {
	mu     sync.RWMutex
	items  chan []byte
	closed bool
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{items: make(chan []byte, size)}
}

func (q *MemoryQueue) Push(_ context.Context, payload []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}

	select {
	case q.items <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Pop(ctx context.Context) ([]byte, error) {
	select {
	case payload, ok := <-q.items:
		if !ok {
			return nil, ErrClosed
		}
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting items. Items already queued are still returned by Pop.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.items)
	}
	return nil
}

func (q *MemoryQueue) Len() int {
	return len(q.items)
}
