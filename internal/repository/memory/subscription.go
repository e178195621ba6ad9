package memory

import (
	"context"
	"sync"

	"github.com/shariahscreen/shariahscreen/internal/domain/subscription"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
)

// SubscriptionStore implements subscription.Repository. The state map and
// the change log share one mutex so a state update and its log entry commit
// atomically as a pair.
type SubscriptionStore struct {
	mu        sync.RWMutex
	states    map[string]*subscription.SubscriptionState
	changeLog map[string][]*subscription.ChangeLogEntry
}

// NewSubscriptionStore creates a new in-memory subscription store
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		states:    make(map[string]*subscription.SubscriptionState),
		changeLog: make(map[string][]*subscription.ChangeLogEntry),
	}
}

func copyState(s *subscription.SubscriptionState) *subscription.SubscriptionState {
	if s == nil {
		return nil
	}
	copied := *s
	copied.ViewedSymbols = append([]string(nil), s.ViewedSymbols...)
	if s.EndDate != nil {
		end := *s.EndDate
		copied.EndDate = &end
	}
	return &copied
}

func copyEntry(e *subscription.ChangeLogEntry) *subscription.ChangeLogEntry {
	if e == nil {
		return nil
	}
	copied := *e
	return &copied
}

func (s *SubscriptionStore) GetState(ctx context.Context, userID string) (*subscription.SubscriptionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return nil, ierr.NewErrorf("no subscription state for user %s", userID).
			WithHint("User not found").
			WithReportableDetails(map[string]interface{}{
				"user_id": userID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyState(state), nil
}

func (s *SubscriptionStore) SaveState(ctx context.Context, state *subscription.SubscriptionState, entry *subscription.ChangeLogEntry) error {
	if state == nil {
		return ierr.NewError("subscription state cannot be nil").
			WithHint("Subscription state cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := state.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// State update and log append happen under the same lock so the pair is
	// atomic: an entry never exists without its committed state update
	s.states[state.UserID] = copyState(state)
	if entry != nil {
		s.changeLog[entry.UserID] = append(s.changeLog[entry.UserID], copyEntry(entry))
	}
	return nil
}

func (s *SubscriptionStore) ListChangeLog(ctx context.Context, userID string) ([]*subscription.ChangeLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.changeLog[userID]
	result := make([]*subscription.ChangeLogEntry, len(entries))
	for i, e := range entries {
		result[i] = copyEntry(e)
	}
	return result, nil
}
