package messaging

import (
	"context"

	"github.com/oksasatya/jsonplaceholder-api/internal/application"
	"github.com/oksasatya/jsonplaceholder-api/pkg/mailer"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, queue string, body any) error
}

// EventPublisher sends domain events to a single queue.
type EventPublisher struct {
	Pub   JSONPublisher
	Queue string
}

func NewEventPublisher(pub JSONPublisher, queue string) *EventPublisher {
	return &EventPublisher{Pub: pub, Queue: queue}
}

func (p *EventPublisher) Publish(ctx context.Context, ev application.Event) error {
	return p.Pub.PublishJSON(ctx, p.Queue, ev)
}

// EmailQueue hands email jobs to the worker behind Queue.
type EmailQueue struct {
	Pub   JSONPublisher
	Queue string
}

func NewEmailQueue(pub JSONPublisher, queue string) *EmailQueue {
	return &EmailQueue{Pub: pub, Queue: queue}
}

func (q *EmailQueue) Enqueue(ctx context.Context, job mailer.EmailJob) error {
	return q.Pub.PublishJSON(ctx, q.Queue, job)
}
