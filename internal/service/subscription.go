package service

import (
	"context"
	"time"

	"github.com/shariahscreen/shariahscreen/internal/api/dto"
	"github.com/shariahscreen/shariahscreen/internal/domain/subscription"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// SubscriptionService manages the per-user subscription state machine and its
// append-only change log
type SubscriptionService interface {
	GetSubscription(ctx context.Context, userID string) (*dto.SubscriptionResponse, error)
	Subscribe(ctx context.Context, userID string, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error)
	Cancel(ctx context.Context, userID string) (*dto.SubscriptionResponse, error)
	ListChangeLog(ctx context.Context, userID string) (*dto.ListChangeLogResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) GetSubscription(ctx context.Context, userID string) (*dto.SubscriptionResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}

	var resp *dto.SubscriptionResponse
	err := s.Locker.WithLock(ctx, types.LockScopeSubscription, map[string]interface{}{
		"user_id": userID,
	}, func(ctx context.Context) error {
		state, err := getOrProvisionState(ctx, s.ServiceParams, userID, time.Now().UTC())
		if err != nil {
			return err
		}
		resp = dto.NewSubscriptionResponse(state, viewQuotaForPlan(s.Config, state.Plan))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Subscribe moves the user onto the requested plan and cycle from any
// current state. The state write and the change log append commit as one
// atomic pair; re-subscribing to the current plan and cycle is a renewal,
// never an error.
func (s *subscriptionService) Subscribe(ctx context.Context, userID string, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp *dto.SubscriptionResponse
	err := s.Locker.WithLock(ctx, types.LockScopeSubscription, map[string]interface{}{
		"user_id": userID,
	}, func(ctx context.Context) error {
		now := time.Now().UTC()
		state, err := getOrProvisionState(ctx, s.ServiceParams, userID, now)
		if err != nil {
			return err
		}

		fromPlan := state.Plan
		fromCycle := state.BillingCycle
		reason := subscription.InferChangeReason(fromPlan, req.Plan, fromCycle, req.BillingCycle)

		state.Plan = req.Plan
		state.BillingCycle = req.BillingCycle
		state.StartDate = now
		state.UpdatedAt = now
		if req.Plan.IsPaid() {
			end := termEnd(now, req.BillingCycle)
			state.EndDate = &end
			state.AutoRenew = true
		} else {
			state.BillingCycle = types.BillingCycleNone
			state.EndDate = nil
			state.AutoRenew = false
		}

		entry := &subscription.ChangeLogEntry{
			ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHANGE_LOG),
			UserID:           userID,
			FromPlan:         fromPlan,
			ToPlan:           req.Plan,
			FromBillingCycle: fromCycle,
			ToBillingCycle:   state.BillingCycle,
			ChangeDate:       now,
			Reason:           reason,
			Notes:            req.Notes,
		}

		if err := s.SubscriptionRepo.SaveState(ctx, state, entry); err != nil {
			return err
		}

		s.Logger.Infow("subscription changed",
			"user_id", userID,
			"from_plan", fromPlan,
			"to_plan", req.Plan,
			"reason", reason)

		resp = dto.NewSubscriptionResponse(state, viewQuotaForPlan(s.Config, state.Plan))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Cancel moves the user back to the free plan. Cancelling while already on
// the free plan is a no-op and writes no log entry.
func (s *subscriptionService) Cancel(ctx context.Context, userID string) (*dto.SubscriptionResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}

	var resp *dto.SubscriptionResponse
	err := s.Locker.WithLock(ctx, types.LockScopeSubscription, map[string]interface{}{
		"user_id": userID,
	}, func(ctx context.Context) error {
		now := time.Now().UTC()
		state, err := getOrProvisionState(ctx, s.ServiceParams, userID, now)
		if err != nil {
			return err
		}

		if !state.Plan.IsPaid() {
			resp = dto.NewSubscriptionResponse(state, viewQuotaForPlan(s.Config, state.Plan))
			return nil
		}

		fromPlan := state.Plan
		fromCycle := state.BillingCycle

		state.Plan = types.PlanTierFree
		state.BillingCycle = types.BillingCycleNone
		state.EndDate = nil
		state.AutoRenew = false
		state.UpdatedAt = now

		entry := &subscription.ChangeLogEntry{
			ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHANGE_LOG),
			UserID:           userID,
			FromPlan:         fromPlan,
			ToPlan:           types.PlanTierFree,
			FromBillingCycle: fromCycle,
			ToBillingCycle:   types.BillingCycleNone,
			ChangeDate:       now,
			Reason:           types.ChangeLogReasonDowngrade,
			Notes:            "cancelled",
		}

		if err := s.SubscriptionRepo.SaveState(ctx, state, entry); err != nil {
			return err
		}

		s.Logger.Infow("subscription cancelled", "user_id", userID, "from_plan", fromPlan)

		resp = dto.NewSubscriptionResponse(state, viewQuotaForPlan(s.Config, state.Plan))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *subscriptionService) ListChangeLog(ctx context.Context, userID string) (*dto.ListChangeLogResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User is required").
			Mark(ierr.ErrValidation)
	}

	entries, err := s.SubscriptionRepo.ListChangeLog(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListChangeLogResponse{
		Items: make([]*dto.ChangeLogEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Items = append(resp.Items, dto.NewChangeLogEntryResponse(entry))
	}
	resp.Total = len(resp.Items)
	return resp, nil
}

// termEnd returns the end of a paid subscription term starting at now
func termEnd(now time.Time, cycle types.BillingCycle) time.Time {
	if cycle == types.BillingCycleAnnual {
		return now.AddDate(1, 0, 0)
	}
	return now.AddDate(0, 1, 0)
}

// getOrProvisionState returns the user's subscription state, provisioning the
// default free state for unknown users and rolling the quota period forward
// when a new calendar month has started. Callers must hold the user's
// subscription lock.
func getOrProvisionState(ctx context.Context, p ServiceParams, userID string, now time.Time) (*subscription.SubscriptionState, error) {
	state, err := p.SubscriptionRepo.GetState(ctx, userID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		state = subscription.NewFreeState(userID, now)
		state.PeriodStart = CurrentPeriodStart(now)
		if err := p.SubscriptionRepo.SaveState(ctx, state, nil); err != nil {
			return nil, err
		}
		return state, nil
	}

	periodStart := CurrentPeriodStart(now)
	if periodStart.After(state.PeriodStart) {
		state.ResetPeriod(periodStart)
		state.UpdatedAt = now
		if err := p.SubscriptionRepo.SaveState(ctx, state, nil); err != nil {
			return nil, err
		}
	}
	return state, nil
}
