package queue

import (
	"context"
	"errors"
)

// Queue is a FIFO of opaque payloads shared by producers and a worker pool.
type Queue interface {
	// Push never blocks; it returns ErrQueueFull when the queue cannot take
	// another item.
	Push(ctx context.Context, payload []byte) error

	// Pop blocks until an item is available, ctx is done, or the queue is
	// closed and drained (ErrClosed).
	Pop(ctx context.Context) ([]byte, error)

	Close() error
}

var (
	ErrQueueFull = errors.New("queue is full")
	ErrClosed    = errors.New("queue is closed")
)
