package queue

import (
	"context"
	"sync/atomic"

	"github.com/redis/rueidis"
)

// RedisQueue keeps payloads in a Redis list so queued notifications survive a
// restart of the process.
type RedisQueue struct {
	client   rueidis.Client
	key      string
	capacity int64
	closed   atomic.Bool
}

func NewRedisQueue(client rueidis.Client, key string, capacity int) *RedisQueue {
	return &RedisQueue{
		client:   client,
		key:      key,
		capacity: int64(capacity),
	}
}

func (r *RedisQueue) Push(ctx context.Context, payload []byte) error {
	if r.closed.Load() {
		return ErrClosed
	}

	length, err := r.client.Do(ctx, r.client.B().Llen().Key(r.key).Build()).AsInt64()
	if err != nil {
		return err
	}
	if r.capacity > 0 && length >= r.capacity {
		return ErrQueueFull
	}

	cmd := r.client.B().Rpush().Key(r.key).Element(string(payload)).Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisQueue) Pop(ctx context.Context) ([]byte, error) {
	for {
		if r.closed.Load() {
			return nil, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cmd := r.client.B().Blpop().Key(r.key).Timeout(1).Build()
		values, err := r.client.Do(ctx, cmd).AsStrSlice()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, err
		}
		if len(values) == 2 {
			return []byte(values[1]), nil
		}
	}
}

// Close stops the queue from handing out items; the Redis list and the client
// are left untouched.
func (r *RedisQueue) Close() error {
	r.closed.Store(true)
	return nil
}
