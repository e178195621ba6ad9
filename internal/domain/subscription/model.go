package subscription

import (
	"time"

	"github.com/samber/lo"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// SubscriptionState is the single current subscription record for a user.
// It is derived from the latest change log entry plus the runtime quota
// counters for the current period.
type SubscriptionState struct {
	UserID       string             `json:"user_id"`
	Plan         types.PlanTier     `json:"plan"`
	BillingCycle types.BillingCycle `json:"billing_cycle,omitempty"`

	// ViewedSymbols is the set of symbols consumed against the view quota in
	// the current period. Only meaningful on the free tier.
	ViewedSymbols []string `json:"viewed_symbols,omitempty"`

	// PeriodStart anchors the quota reset for the current period
	PeriodStart time.Time `json:"period_start"`

	// StartDate and EndDate bound the paid subscription term; EndDate is nil
	// on the free tier
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	AutoRenew bool       `json:"auto_renew"`

	types.BaseModel
}

// NewFreeState returns the default subscription state for a new user
func NewFreeState(userID string, now time.Time) *SubscriptionState {
	return &SubscriptionState{
		UserID:      userID,
		Plan:        types.PlanTierFree,
		PeriodStart: now,
		StartDate:   now,
		BaseModel: types.BaseModel{
			Status:    types.StatusPublished,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// HasViewed reports whether the symbol was already charged against the quota
// in the current period
func (s *SubscriptionState) HasViewed(symbol string) bool {
	return lo.Contains(s.ViewedSymbols, symbol)
}

// RecordView charges a symbol against the quota. Re-viewing a charged symbol
// is a no-op.
func (s *SubscriptionState) RecordView(symbol string) {
	if !s.HasViewed(symbol) {
		s.ViewedSymbols = append(s.ViewedSymbols, symbol)
	}
}

// DistinctViews returns the number of distinct symbols consumed this period
func (s *SubscriptionState) DistinctViews() int {
	return len(s.ViewedSymbols)
}

// ResetPeriod clears the quota counters and re-anchors the period start
func (s *SubscriptionState) ResetPeriod(periodStart time.Time) {
	s.ViewedSymbols = nil
	s.PeriodStart = periodStart
}

// Validate validates the subscription state
func (s *SubscriptionState) Validate() error {
	if s.UserID == "" {
		return ierr.NewError("user_id is required").
			WithHint("Subscription state requires a user").
			Mark(ierr.ErrValidation)
	}
	if err := s.Plan.Validate(); err != nil {
		return err
	}
	if s.Plan.IsPaid() {
		if err := s.BillingCycle.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ChangeLogEntry is one immutable record of a plan transition. Entries are
// append only: they are never edited or deleted once written. The JSON field
// names are stable for external billing and audit consumers.
type ChangeLogEntry struct {
	ID               string                `json:"id"`
	UserID           string                `json:"user"`
	FromPlan         types.PlanTier        `json:"fromPlan"`
	ToPlan           types.PlanTier        `json:"toPlan"`
	FromBillingCycle types.BillingCycle    `json:"fromBillingCycle"`
	ToBillingCycle   types.BillingCycle    `json:"toBillingCycle"`
	ChangeDate       time.Time             `json:"changeDate"`
	Reason           types.ChangeLogReason `json:"reason"`
	Notes            string                `json:"notes,omitempty"`
}

// InferChangeReason categorizes a plan transition. Same plan and cycle is a
// renewal; a higher ranked plan is an upgrade, a lower ranked one a
// downgrade; a cycle switch on the same plan falls through to other.
func InferChangeReason(fromPlan, toPlan types.PlanTier, fromCycle, toCycle types.BillingCycle) types.ChangeLogReason {
	switch {
	case fromPlan == toPlan && fromCycle == toCycle:
		return types.ChangeLogReasonRenewal
	case toPlan.Rank() > fromPlan.Rank():
		return types.ChangeLogReasonUpgrade
	case toPlan.Rank() < fromPlan.Rank():
		return types.ChangeLogReasonDowngrade
	default:
		return types.ChangeLogReasonOther
	}
}
