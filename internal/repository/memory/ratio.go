package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/shariahscreen/shariahscreen/internal/domain/ratio"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
)

// RatioSnapshotStore implements ratio.Repository with append-only in-memory
// storage. Snapshots are immutable: Create never replaces an observation,
// it appends a new one.
type RatioSnapshotStore struct {
	mu       sync.RWMutex
	bySymbol map[string][]*ratio.Snapshot
}

// NewRatioSnapshotStore creates a new in-memory snapshot store
func NewRatioSnapshotStore() *RatioSnapshotStore {
	return &RatioSnapshotStore{
		bySymbol: make(map[string][]*ratio.Snapshot),
	}
}

func copySnapshot(s *ratio.Snapshot) *ratio.Snapshot {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}

func (s *RatioSnapshotStore) Create(ctx context.Context, snapshot *ratio.Snapshot) error {
	if snapshot == nil {
		return ierr.NewError("snapshot cannot be nil").
			WithHint("Snapshot cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bySymbol[snapshot.Symbol] = append(s.bySymbol[snapshot.Symbol], copySnapshot(snapshot))
	return nil
}

func (s *RatioSnapshotStore) GetLatest(ctx context.Context, symbol string) (*ratio.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.latestLocked(symbol)
	if latest == nil {
		return nil, ierr.NewErrorf("no snapshot found for symbol %s", symbol).
			WithHint("Stock not found").
			WithReportableDetails(map[string]interface{}{
				"symbol": symbol,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copySnapshot(latest), nil
}

func (s *RatioSnapshotStore) List(ctx context.Context, filter *ratio.Filter) ([]*ratio.Snapshot, error) {
	if filter == nil {
		filter = &ratio.Filter{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Iterate symbols in sorted order so a Limit truncates a stable,
	// deterministic sequence rather than whatever map order yields
	symbols := lo.Keys(s.bySymbol)
	sort.Strings(symbols)

	var result []*ratio.Snapshot
	for _, symbol := range symbols {
		latest := s.latestLocked(symbol)
		if latest == nil {
			continue
		}
		if len(filter.Symbols) > 0 && !lo.Contains(filter.Symbols, latest.Symbol) {
			continue
		}
		if len(filter.Sectors) > 0 && !lo.Contains(filter.Sectors, latest.Sector) {
			continue
		}
		if len(filter.Industries) > 0 && !lo.Contains(filter.Industries, latest.Industry) {
			continue
		}
		result = append(result, copySnapshot(latest))
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

// latestLocked returns the newest observation for a symbol; callers must
// hold the lock
func (s *RatioSnapshotStore) latestLocked(symbol string) *ratio.Snapshot {
	snapshots := s.bySymbol[symbol]
	var latest *ratio.Snapshot
	for _, snap := range snapshots {
		if latest == nil || snap.ObservedAt.After(latest.ObservedAt) {
			latest = snap
		}
	}
	return latest
}
