package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shariahscreen/shariahscreen/internal/types"
)

func TestInferChangeReason(t *testing.T) {
	testCases := []struct {
		name      string
		fromPlan  types.PlanTier
		toPlan    types.PlanTier
		fromCycle types.BillingCycle
		toCycle   types.BillingCycle
		expected  types.ChangeLogReason
	}{
		{
			name:      "same plan and cycle is renewal",
			fromPlan:  types.PlanTierBasic,
			toPlan:    types.PlanTierBasic,
			fromCycle: types.BillingCycleMonthly,
			toCycle:   types.BillingCycleMonthly,
			expected:  types.ChangeLogReasonRenewal,
		},
		{
			name:     "free to basic is upgrade",
			fromPlan: types.PlanTierFree,
			toPlan:   types.PlanTierBasic,
			toCycle:  types.BillingCycleMonthly,
			expected: types.ChangeLogReasonUpgrade,
		},
		{
			name:      "basic to premium is upgrade",
			fromPlan:  types.PlanTierBasic,
			toPlan:    types.PlanTierPremium,
			fromCycle: types.BillingCycleMonthly,
			toCycle:   types.BillingCycleMonthly,
			expected:  types.ChangeLogReasonUpgrade,
		},
		{
			name:      "premium to free is downgrade",
			fromPlan:  types.PlanTierPremium,
			toPlan:    types.PlanTierFree,
			fromCycle: types.BillingCycleAnnual,
			expected:  types.ChangeLogReasonDowngrade,
		},
		{
			name:      "cycle switch on same plan is other",
			fromPlan:  types.PlanTierBasic,
			toPlan:    types.PlanTierBasic,
			fromCycle: types.BillingCycleMonthly,
			toCycle:   types.BillingCycleAnnual,
			expected:  types.ChangeLogReasonOther,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InferChangeReason(tc.fromPlan, tc.toPlan, tc.fromCycle, tc.toCycle)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSubscriptionStateViews(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	state := NewFreeState("user_1", now)

	assert.Equal(t, 0, state.DistinctViews())
	assert.False(t, state.HasViewed("AAPL"))

	state.RecordView("AAPL")
	state.RecordView("AAPL")
	state.RecordView("MSFT")

	// Re-views do not consume additional quota
	assert.Equal(t, 2, state.DistinctViews())
	assert.True(t, state.HasViewed("AAPL"))

	next := now.AddDate(0, 1, 0)
	state.ResetPeriod(next)
	assert.Equal(t, 0, state.DistinctViews())
	assert.Equal(t, next, state.PeriodStart)
}

func TestSubscriptionStateValidate(t *testing.T) {
	now := time.Now().UTC()

	state := NewFreeState("user_1", now)
	assert.NoError(t, state.Validate())

	state.UserID = ""
	assert.Error(t, state.Validate())

	paid := NewFreeState("user_2", now)
	paid.Plan = types.PlanTierBasic
	// Paid tiers require a billing cycle
	assert.Error(t, paid.Validate())
	paid.BillingCycle = types.BillingCycleMonthly
	assert.NoError(t, paid.Validate())
}
