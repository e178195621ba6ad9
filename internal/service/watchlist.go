package service

import (
	"context"

	"github.com/shariahscreen/shariahscreen/internal/api/dto"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// WatchlistService manages per-user watchlists within the storage caps of
// the user's plan
type WatchlistService interface {
	AddItem(ctx context.Context, userID string, req *dto.AddWatchlistItemRequest) (*dto.WatchlistItemResponse, error)
	RemoveItem(ctx context.Context, userID, symbol string) error
	ListItems(ctx context.Context, userID string) (*dto.ListWatchlistResponse, error)
}

type watchlistService struct {
	ServiceParams
	entitlement EntitlementService
}

// NewWatchlistService creates a new watchlist service
func NewWatchlistService(params ServiceParams) WatchlistService {
	return &watchlistService{
		ServiceParams: params,
		entitlement:   NewEntitlementService(params),
	}
}

// AddItem stores a watchlist entry after the entitlement gate admits it. The
// cap check and the write run under the user's subscription lock so
// concurrent adds cannot overshoot the plan limit.
func (s *watchlistService) AddItem(ctx context.Context, userID string, req *dto.AddWatchlistItemRequest) (*dto.WatchlistItemResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp *dto.WatchlistItemResponse
	err := s.Locker.WithLock(ctx, types.LockScopeSubscription, map[string]interface{}{
		"user_id": userID,
	}, func(ctx context.Context) error {
		result, err := s.entitlement.AuthorizeWatchlistAdd(ctx, userID)
		if err != nil {
			return err
		}
		if !result.Allowed {
			return ierr.NewErrorf("watchlist add denied: %s", result.Reason).
				WithHint(result.Message).
				WithReportableDetails(map[string]interface{}{
					"reason": result.Reason,
				}).
				Mark(ierr.ErrPermissionDenied)
		}

		item := req.ToItem(ctx, userID)
		if err := s.WatchlistRepo.Add(ctx, item); err != nil {
			return err
		}
		resp = dto.NewWatchlistItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *watchlistService) RemoveItem(ctx context.Context, userID, symbol string) error {
	if userID == "" {
		return ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}
	if symbol == "" {
		return ierr.NewError("symbol is required").
			WithHint("Symbol is required").
			Mark(ierr.ErrValidation)
	}
	return s.WatchlistRepo.Remove(ctx, userID, symbol)
}

func (s *watchlistService) ListItems(ctx context.Context, userID string) (*dto.ListWatchlistResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}

	items, err := s.WatchlistRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	state, err := s.SubscriptionRepo.GetState(ctx, userID)
	limit := 0
	if err == nil {
		limit = watchlistLimitForPlan(s.Config, state.Plan)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	resp := &dto.ListWatchlistResponse{
		Items: make([]*dto.WatchlistItemResponse, 0, len(items)),
		Limit: limit,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.NewWatchlistItemResponse(item))
	}
	resp.Total = len(resp.Items)
	return resp, nil
}
