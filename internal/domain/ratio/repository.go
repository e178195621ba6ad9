package ratio

import (
	"context"
)

// Repository defines the interface for ratio snapshot persistence operations.
// Snapshots are externally populated by the data ingestion pipeline; this
// core only reads them and appends new observations.
type Repository interface {
	// Create stores a new snapshot observation
	Create(ctx context.Context, snapshot *Snapshot) error

	// GetLatest retrieves the most recent snapshot for a symbol
	GetLatest(ctx context.Context, symbol string) (*Snapshot, error)

	// List retrieves the latest snapshot per symbol matching the filter
	List(ctx context.Context, filter *Filter) ([]*Snapshot, error)
}

// Filter defines query parameters for listing snapshots
type Filter struct {
	// Symbols filters by specific ticker symbols
	Symbols []string

	// Sectors filters by sector names
	Sectors []string

	// Industries filters by industry names
	Industries []string

	// Limit caps the number of results; zero means no cap
	Limit int
}
