package repository

import (
	"context"
	"errors"

	"advent-bot/internal/domain"
)

// ErrUnknownSubscriber is returned by SetSubscribed when no record exists for
// the given ID. Callers distinguish it from backend failures with errors.Is.
var ErrUnknownSubscriber = errors.New("unknown subscriber")

// SubscriberRepository defines the interface for subscriber registry operations.
// Records are created on first contact and never deleted.
type SubscriberRepository interface {
	// Get retrieves a subscriber by ID; returns nil without error when unknown
	Get(ctx context.Context, id string) (*domain.Subscriber, error)

	// Put creates or replaces a subscriber record
	Put(ctx context.Context, subscriber *domain.Subscriber) error

	// SetSubscribed flips the subscription flag for an existing subscriber;
	// returns ErrUnknownSubscriber when there is none
	SetSubscribed(ctx context.Context, id string, subscribed bool) error

	// ListSubscribed returns all subscribers with the subscription flag set
	ListSubscribed(ctx context.Context) ([]*domain.Subscriber, error)

	// Health checks the backing store
	Health(ctx context.Context) error

	// Close releases backing-store resources
	Close() error
}
