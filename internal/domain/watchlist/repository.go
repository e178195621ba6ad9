package watchlist

import (
	"context"
)

// Repository defines the interface for watchlist persistence operations
type Repository interface {
	// Add stores a new watchlist item
	Add(ctx context.Context, item *Item) error

	// Remove deletes the item for a user and symbol
	Remove(ctx context.Context, userID, symbol string) error

	// List retrieves all items for a user, oldest first
	List(ctx context.Context, userID string) ([]*Item, error)

	// Count returns the number of items stored for a user
	Count(ctx context.Context, userID string) (int, error)
}
