package service

import (
	"context"
	"time"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// AuthorizationResult is the outcome of an entitlement check. Reason and
// Message are populated only when Allowed is false.
type AuthorizationResult struct {
	Allowed bool               `json:"allowed"`
	Reason  types.DenialReason `json:"reason,omitempty"`
	Message string             `json:"message,omitempty"`
}

// EntitlementService gates feature access by plan tier: the distinct-symbol
// view quota on the free tier and the per-plan watchlist storage caps.
type EntitlementService interface {
	// AuthorizeView decides whether the user may view the compliance verdict
	// for a symbol and, when the view consumes free-tier quota, records the
	// consumption atomically with the decision.
	AuthorizeView(ctx context.Context, userID, symbol string) (*AuthorizationResult, error)

	// AuthorizeWatchlistAdd decides whether the user may store one more
	// watchlist entry. Callers must hold the user's subscription lock, and
	// keep holding it across the write when they act on an allow.
	AuthorizeWatchlistAdd(ctx context.Context, userID string) (*AuthorizationResult, error)
}

type entitlementService struct {
	ServiceParams
}

// NewEntitlementService creates a new entitlement service
func NewEntitlementService(params ServiceParams) EntitlementService {
	return &entitlementService{
		ServiceParams: params,
	}
}

// CurrentPeriodStart returns the start of the quota period containing now.
// Quota periods are calendar months in UTC, independent of the billing cycle.
func CurrentPeriodStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (s *entitlementService) AuthorizeView(ctx context.Context, userID, symbol string) (*AuthorizationResult, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}
	if symbol == "" {
		return nil, ierr.NewError("symbol is required").
			WithHint("Symbol is required").
			Mark(ierr.ErrValidation)
	}

	var result *AuthorizationResult
	// The quota check and the consumption write run under the user's
	// subscription lock so concurrent views cannot overshoot the quota
	err := s.Locker.WithLock(ctx, types.LockScopeSubscription, map[string]interface{}{
		"user_id": userID,
	}, func(ctx context.Context) error {
		state, err := getOrProvisionState(ctx, s.ServiceParams, userID, time.Now().UTC())
		if err != nil {
			return err
		}

		if state.Plan.IsPaid() {
			result = &AuthorizationResult{Allowed: true}
			return nil
		}

		// Re-viewing an already consumed symbol is free
		if state.HasViewed(symbol) {
			result = &AuthorizationResult{Allowed: true}
			return nil
		}

		if state.DistinctViews() >= s.Config.Plans.FreeViewQuota {
			result = &AuthorizationResult{
				Allowed: false,
				Reason:  types.DenialReasonQuotaExceeded,
				Message: "View limit reached",
			}
			return nil
		}

		state.RecordView(symbol)
		state.UpdatedAt = time.Now().UTC()
		if err := s.SubscriptionRepo.SaveState(ctx, state, nil); err != nil {
			return err
		}
		result = &AuthorizationResult{Allowed: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Allowed {
		s.Logger.Infow("view denied by quota",
			"user_id", userID,
			"symbol", symbol,
			"reason", result.Reason)
	}
	return result, nil
}

func (s *entitlementService) AuthorizeWatchlistAdd(ctx context.Context, userID string) (*AuthorizationResult, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}

	state, err := getOrProvisionState(ctx, s.ServiceParams, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	limit := watchlistLimitForPlan(s.Config, state.Plan)
	count, err := s.WatchlistRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	if count >= limit {
		return &AuthorizationResult{
			Allowed: false,
			Reason:  types.DenialReasonStorageLimitExceeded,
			Message: "Watchlist limit reached for your plan",
		}, nil
	}
	return &AuthorizationResult{Allowed: true}, nil
}
