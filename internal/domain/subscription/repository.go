package subscription

import (
	"context"
)

// Repository defines the interface for subscription state persistence. The
// change log is owned by the same store so that a state update and its log
// entry commit atomically as a pair: an entry must never exist without the
// corresponding state update, and vice versa.
type Repository interface {
	// GetState retrieves the current subscription state for a user
	GetState(ctx context.Context, userID string) (*SubscriptionState, error)

	// SaveState writes the subscription state and, when entry is non nil,
	// appends the change log entry in the same atomic operation
	SaveState(ctx context.Context, state *SubscriptionState, entry *ChangeLogEntry) error

	// ListChangeLog retrieves the change log entries for a user, oldest first
	ListChangeLog(ctx context.Context, userID string) ([]*ChangeLogEntry, error)
}
