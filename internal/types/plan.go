package types

import (
	"github.com/samber/lo"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
)

// PlanTier is a subscription plan tier. Tiers form a strict order
// Free < Basic < Premium used to infer upgrade vs downgrade transitions.
type PlanTier string

const (
	PlanTierFree    PlanTier = "free"
	PlanTierBasic   PlanTier = "basic"
	PlanTierPremium PlanTier = "premium"
)

func (p PlanTier) String() string {
	return string(p)
}

// Rank returns the position of the tier in the plan order
func (p PlanTier) Rank() int {
	switch p {
	case PlanTierFree:
		return 0
	case PlanTierBasic:
		return 1
	case PlanTierPremium:
		return 2
	default:
		return -1
	}
}

// IsPaid returns true for tiers that carry a billing cycle
func (p PlanTier) IsPaid() bool {
	return p == PlanTierBasic || p == PlanTierPremium
}

func (p PlanTier) Validate() error {
	allowed := []PlanTier{PlanTierFree, PlanTierBasic, PlanTierPremium}
	if !lo.Contains(allowed, p) {
		return ierr.NewErrorf("invalid plan tier: %s", p).
			WithHint("Please provide a valid plan").
			WithReportableDetails(map[string]interface{}{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingCycle is the recurrence of a paid plan. It is meaningful only on
// paid tiers; the free tier carries BillingCycleNone.
type BillingCycle string

const (
	BillingCycleNone    BillingCycle = ""
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

func (b BillingCycle) String() string {
	return string(b)
}

func (b BillingCycle) Validate() error {
	allowed := []BillingCycle{BillingCycleMonthly, BillingCycleAnnual}
	if !lo.Contains(allowed, b) {
		return ierr.NewErrorf("invalid billing cycle: %s", b).
			WithHint("Please provide a valid billing cycle").
			WithReportableDetails(map[string]interface{}{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ChangeLogReason categorizes a plan transition in the subscription change log
type ChangeLogReason string

const (
	ChangeLogReasonUpgrade   ChangeLogReason = "upgrade"
	ChangeLogReasonDowngrade ChangeLogReason = "downgrade"
	ChangeLogReasonRenewal   ChangeLogReason = "renewal"
	ChangeLogReasonOther     ChangeLogReason = "other"
)

func (r ChangeLogReason) String() string {
	return string(r)
}
