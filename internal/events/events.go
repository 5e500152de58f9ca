package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopsmart/apiserver/types"
)

// Channel is the broker channel all account events are published to.
const Channel = "account-events"

// Event types.
const (
	TypeUserRegistered = "user.registered"
	TypeUserLoggedIn   = "user.logged_in"
)

// AccountEvent is the payload published for account lifecycle events.
// The registration event carries the verification token so a mail
// worker can send the confirmation email out of band.
type AccountEvent struct {
	Type              string    `json:"type"`
	UserID            int       `json:"user_id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	VerificationToken string    `json:"verification_token,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// Message is a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Publisher emits account events through a backend. A nil Publisher is
// valid and drops events, so callers need no configured-broker checks.
type Publisher struct {
	backend Backend
}

// NewPublisher constructs a Publisher for the provided backend.
func NewPublisher(backend Backend) *Publisher {
	return &Publisher{backend: backend}
}

// UserRegistered publishes a registration event for the user.
func (p *Publisher) UserRegistered(ctx context.Context, user types.User) error {
	return p.publish(ctx, AccountEvent{
		Type:              TypeUserRegistered,
		UserID:            user.ID,
		Email:             user.Email,
		FullName:          user.FullName,
		VerificationToken: user.VerificationToken,
		OccurredAt:        time.Now(),
	})
}

// UserLoggedIn publishes a login event for the user.
func (p *Publisher) UserLoggedIn(ctx context.Context, user types.User) error {
	return p.publish(ctx, AccountEvent{
		Type:       TypeUserLoggedIn,
		UserID:     user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		OccurredAt: time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, event AccountEvent) error {
	if p == nil || p.backend == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.backend.Publish(ctx, Channel, data, map[string]string{"type": event.Type})
	return err
}

// Subscribe consumes account events from the backend.
func (p *Publisher) Subscribe(ctx context.Context, handler Handler) error {
	return p.backend.Subscribe(ctx, Channel, handler)
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	if p == nil || p.backend == nil {
		return nil
	}
	return p.backend.Close()
}
