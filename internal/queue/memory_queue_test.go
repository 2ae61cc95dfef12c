package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryQueue_PushPopOrder(t *testing.T) {
	q := NewMemoryQueue(3)
	ctx := context.Background()

	for _, item := range []string{"a", "b", "c"} {
		if err := q.Push(ctx, []byte(item)); err != nil {
			t.Fatalf("push %s: %v", item, err)
		}
	}

	for _, want := range []string{"a", "b", "c"} {
		got, err := q.Pop(ctx)
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if string(got) != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}

func TestMemoryQueue_FullQueueRejects(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx := context.Background()

	if err := q.Push(ctx, []byte("first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Push(ctx, []byte("second")); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
}

func TestMemoryQueue_CloseDrainsThenStops(t *testing.T) {
	q := NewMemoryQueue(2)
	ctx := context.Background()

	_ = q.Push(ctx, []byte("pending"))
	_ = q.Close()

	if err := q.Push(ctx, []byte("late")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}

	got, err := q.Pop(ctx)
	if err != nil || string(got) != "pending" {
		t.Fatalf("expected queued item to drain, got %q, %v", got, err)
	}

	if _, err := q.Pop(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed once drained, got %v", err)
	}
}

func TestMemoryQueue_PopHonoursContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := q.Pop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestMemoryQueue_ConcurrentPush(t *testing.T) {
	const size = 10
	q := NewMemoryQueue(size)

	var wg sync.WaitGroup
	results := make(chan error, 2*size)
	for i := 0; i < 2*size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- q.Push(context.Background(), []byte("x"))
		}()
	}
	wg.Wait()
	close(results)

	accepted := 0
	for err := range results {
		if err == nil {
			accepted++
		}
	}
	if accepted != size {
		t.Errorf("expected %d accepted pushes, got %d", size, accepted)
	}
}
