package memory

import (
	"context"
	"sync"

	"github.com/shariahscreen/shariahscreen/internal/domain/watchlist"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
)

// WatchlistStore implements watchlist.Repository with in-memory storage
type WatchlistStore struct {
	mu     sync.RWMutex
	byUser map[string][]*watchlist.Item
}

// NewWatchlistStore creates a new in-memory watchlist store
func NewWatchlistStore() *WatchlistStore {
	return &WatchlistStore{
		byUser: make(map[string][]*watchlist.Item),
	}
}

func copyItem(i *watchlist.Item) *watchlist.Item {
	if i == nil {
		return nil
	}
	copied := *i
	return &copied
}

func (s *WatchlistStore) Add(ctx context.Context, item *watchlist.Item) error {
	if item == nil {
		return ierr.NewError("watchlist item cannot be nil").
			WithHint("Watchlist item cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byUser[item.UserID] {
		if existing.Symbol == item.Symbol {
			return ierr.NewErrorf("symbol %s already in watchlist", item.Symbol).
				WithHint("Stock is already in your watchlist").
				WithReportableDetails(map[string]interface{}{
					"symbol": item.Symbol,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
	}

	s.byUser[item.UserID] = append(s.byUser[item.UserID], copyItem(item))
	return nil
}

func (s *WatchlistStore) Remove(ctx context.Context, userID, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.byUser[userID]
	for i, item := range items {
		if item.Symbol == symbol {
			s.byUser[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}

	return ierr.NewErrorf("symbol %s not in watchlist", symbol).
		WithHint("Stock is not in your watchlist").
		WithReportableDetails(map[string]interface{}{
			"symbol": symbol,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *WatchlistStore) List(ctx context.Context, userID string) ([]*watchlist.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.byUser[userID]
	result := make([]*watchlist.Item, len(items))
	for i, item := range items {
		result[i] = copyItem(item)
	}
	return result, nil
}

func (s *WatchlistStore) Count(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byUser[userID]), nil
}
