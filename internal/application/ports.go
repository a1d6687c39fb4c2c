package application

import (
	"context"
	"time"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	"github.com/oksasatya/jsonplaceholder-api/pkg/mailer"
)

// TokenIssuer signs bearer tokens for a credential.
type TokenIssuer interface {
	Issue(subjectID int64, email string) (string, time.Time, error)
}

// UserIndexer keeps a search index of users in sync with the database.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// EventPublisher emits domain events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// EmailQueue hands email jobs to the background worker.
type EmailQueue interface {
	Enqueue(ctx context.Context, job mailer.EmailJob) error
}

const (
	EventCredentialRegistered = "credential.registered"
	EventUserCreated          = "user.created"
	EventUserUpdated          = "user.updated"
	EventUserDeleted          = "user.deleted"
)

// Event is the message published for every state change.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func newEvent(typ string, payload any) Event {
	return Event{Type: typ, OccurredAt: time.Now().UTC(), Payload: payload}
}

type noopIndexer struct{}

func (noopIndexer) Index(context.Context, *entity.User) error { return nil }
func (noopIndexer) Remove(context.Context, int64) error       { return nil }
func (noopIndexer) Search(context.Context, string, int) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

type noopEmailQueue struct{}

func (noopEmailQueue) Enqueue(context.Context, mailer.EmailJob) error { return nil }
