package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shariahscreen/shariahscreen/internal/domain/subscription"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// SubscribeRequest represents the request to move a user onto a plan
type SubscribeRequest struct {
	Plan         types.PlanTier     `json:"plan" validate:"required"`
	BillingCycle types.BillingCycle `json:"billing_cycle,omitempty"`
	Notes        string             `json:"notes,omitempty"`
}

// Validate validates the subscribe request
func (r *SubscribeRequest) Validate() error {
	if err := r.Plan.Validate(); err != nil {
		return err
	}
	if r.Plan.IsPaid() {
		if err := r.BillingCycle.Validate(); err != nil {
			return err
		}
	} else if r.BillingCycle != types.BillingCycleNone {
		return ierr.NewError("billing cycle is not applicable to the free plan").
			WithHint("The free plan does not carry a billing cycle").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionResponse represents the current subscription state of a user
type SubscriptionResponse struct {
	UserID       string             `json:"user_id"`
	Plan         types.PlanTier     `json:"plan"`
	BillingCycle types.BillingCycle `json:"billing_cycle,omitempty"`
	PeriodStart  time.Time          `json:"period_start"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      *time.Time         `json:"end_date,omitempty"`
	AutoRenew    bool               `json:"auto_renew"`

	// ViewsUsed and ViewQuota describe the distinct-symbol quota for the
	// current period; ViewQuota is nil on unlimited plans
	ViewsUsed int  `json:"views_used"`
	ViewQuota *int `json:"view_quota,omitempty"`
}

// NewSubscriptionResponse builds the response from a subscription state
func NewSubscriptionResponse(state *subscription.SubscriptionState, viewQuota *int) *SubscriptionResponse {
	return &SubscriptionResponse{
		UserID:       state.UserID,
		Plan:         state.Plan,
		BillingCycle: state.BillingCycle,
		PeriodStart:  state.PeriodStart,
		StartDate:    state.StartDate,
		EndDate:      state.EndDate,
		AutoRenew:    state.AutoRenew,
		ViewsUsed:    state.DistinctViews(),
		ViewQuota:    viewQuota,
	}
}

// ChangeLogEntryResponse is one audit record of a plan transition
type ChangeLogEntryResponse struct {
	ID               string                `json:"id"`
	UserID           string                `json:"user"`
	FromPlan         types.PlanTier        `json:"fromPlan"`
	ToPlan           types.PlanTier        `json:"toPlan"`
	FromBillingCycle types.BillingCycle    `json:"fromBillingCycle,omitempty"`
	ToBillingCycle   types.BillingCycle    `json:"toBillingCycle,omitempty"`
	ChangeDate       time.Time             `json:"changeDate"`
	Reason           types.ChangeLogReason `json:"reason"`
	Notes            string                `json:"notes,omitempty"`
}

// NewChangeLogEntryResponse builds the response from a change log entry
func NewChangeLogEntryResponse(entry *subscription.ChangeLogEntry) *ChangeLogEntryResponse {
	return &ChangeLogEntryResponse{
		ID:               entry.ID,
		UserID:           entry.UserID,
		FromPlan:         entry.FromPlan,
		ToPlan:           entry.ToPlan,
		FromBillingCycle: entry.FromBillingCycle,
		ToBillingCycle:   entry.ToBillingCycle,
		ChangeDate:       entry.ChangeDate,
		Reason:           entry.Reason,
		Notes:            entry.Notes,
	}
}

// ListChangeLogResponse represents the response for listing change log entries
type ListChangeLogResponse struct {
	Items []*ChangeLogEntryResponse `json:"items"`
	Total int                       `json:"total"`
}

// PriceBreakdownResponse is the tax-inclusive price of one plan and cycle
// combination. All amounts carry 2 decimal places.
type PriceBreakdownResponse struct {
	Plan         types.PlanTier     `json:"plan"`
	BillingCycle types.BillingCycle `json:"billing_cycle"`
	Currency     string             `json:"currency"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Tax          decimal.Decimal    `json:"tax"`
	Total        decimal.Decimal    `json:"total"`
}

// PlanDetailResponse is one entry of the plan catalog
type PlanDetailResponse struct {
	Plan           types.PlanTier            `json:"plan"`
	ViewQuota      *int                      `json:"view_quota,omitempty"`
	WatchlistLimit int                       `json:"watchlist_limit"`
	Prices         []*PriceBreakdownResponse `json:"prices,omitempty"`
}

// PlanCatalogResponse represents the plan comparison data served to the
// presentation layer
type PlanCatalogResponse struct {
	Plans []*PlanDetailResponse `json:"plans"`
}
