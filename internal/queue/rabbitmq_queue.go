package queue

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQQueue struct {
	channel    *amqp.Channel
	name       string
	once       sync.Once
	deliveries <-chan amqp.Delivery
	consumeErr error
}

func NewRabbitMQQueue(conn *amqp.Connection, name string) (*RabbitMQQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	return &RabbitMQQueue{channel: ch, name: name}, nil
}

func (q *RabbitMQQueue) Push(ctx context.Context, payload []byte) error {
	if q.channel.IsClosed() {
		return ErrClosed
	}

	return q.channel.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
}

func (q *RabbitMQQueue) Pop(ctx context.Context) ([]byte, error) {
	q.once.Do(func() {
		q.deliveries, q.consumeErr = q.channel.Consume(q.name, "", true, false, false, false, nil)
	})
	if q.consumeErr != nil {
		return nil, q.consumeErr
	}

	select {
	case d, ok := <-q.deliveries:
		if !ok {
			return nil, ErrClosed
		}
		return d.Body, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *RabbitMQQueue) Close() error {
	return q.channel.Close()
}
