package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	UserRegistered Type = "user.registered"
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
)

// Event records one successful write.
type Event struct {
	ID         string `json:"id"`
	Type       Type   `json:"type"`
	Email      string `json:"email,omitempty"`
	ResourceID string `json:"resource_id"`
	Timestamp  int64  `json:"timestamp"`
	Payload    any    `json:"payload,omitempty"`
}

func New(t Type, email, resourceID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Email:      email,
		ResourceID: resourceID,
		Timestamp:  time.Now().Unix(),
		Payload:    payload,
	}
}

// Publisher accepts events after a write has committed. Publish must not
// block on the broker and never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
