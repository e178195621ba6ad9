package screening

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shariahscreen/shariahscreen/internal/domain/ratio"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func snapshot(debt, interest, cash, receivables *decimal.Decimal) *ratio.Snapshot {
	return &ratio.Snapshot{
		ID:                                "snap_test",
		Symbol:                            "TEST",
		DebtToAssets:                      debt,
		InterestIncomeToRevenue:           interest,
		CashAndInterestSecuritiesToAssets: cash,
		ReceivablesToAssets:               receivables,
		ObservedAt:                        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

// TestClassify_RulePriority verifies the fixed rule order: the first violated
// rule determines both classification and reason, regardless of how badly
// later rules are violated.
func TestClassify_RulePriority(t *testing.T) {
	tests := []struct {
		name           string
		snapshot       *ratio.Snapshot
		classification types.Classification
		reason         string
	}{
		{
			name:           "DebtViolation_AloneFails",
			snapshot:       snapshot(dec("0.40"), dec("0.01"), dec("0.10"), dec("0.10")),
			classification: types.ClassificationNotHalal,
			reason:         types.HaramReasonExcessiveDebt,
		},
		{
			name:           "DebtViolation_WinsOverAllOthers",
			snapshot:       snapshot(dec("0.90"), dec("0.90"), dec("0.90"), dec("0.90")),
			classification: types.ClassificationNotHalal,
			reason:         types.HaramReasonExcessiveDebt,
		},
		{
			name:           "InterestIncomeViolation_SecondPriority",
			snapshot:       snapshot(dec("0.10"), dec("0.08"), dec("0.90"), dec("0.90")),
			classification: types.ClassificationNotHalal,
			reason:         types.HaramReasonExcessiveInterestIncome,
		},
		{
			name:           "InterestAssetsViolation_ThirdPriority",
			snapshot:       snapshot(dec("0.10"), dec("0.01"), dec("0.50"), dec("0.90")),
			classification: types.ClassificationNotHalal,
			reason:         types.HaramReasonExcessiveInterestAssets,
		},
		{
			name:           "ReceivablesViolation_IsDoubtfulNotHaram",
			snapshot:       snapshot(dec("0.10"), dec("0.01"), dec("0.10"), dec("0.60")),
			classification: types.ClassificationDoubtful,
			reason:         types.HaramReasonElevatedReceivables,
		},
		{
			name:           "AllUnderThresholds_Halal",
			snapshot:       snapshot(dec("0.10"), dec("0.01"), dec("0.10"), dec("0.10")),
			classification: types.ClassificationHalal,
			reason:         "",
		},
		{
			name:           "ExactlyAtThreshold_NotAViolation",
			snapshot:       snapshot(dec("0.33"), dec("0.05"), dec("0.33"), dec("0.49")),
			classification: types.ClassificationHalal,
			reason:         "",
		},
	}

	thresholds := DefaultThresholds()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Classify(tt.snapshot, thresholds)
			assert.Equal(t, tt.classification, verdict.Classification)
			assert.Equal(t, tt.reason, verdict.Reason)

			// Reason is non-empty iff the verdict is not Halal
			if verdict.IsHalal() {
				assert.Empty(t, verdict.Reason)
			} else {
				assert.NotEmpty(t, verdict.Reason)
			}
		})
	}
}

// TestClassify_Deterministic verifies that classifying the same snapshot
// twice yields identical verdicts.
func TestClassify_Deterministic(t *testing.T) {
	s := snapshot(dec("0.21"), dec("0.013"), dec("0.18"), dec("0.35"))
	thresholds := DefaultThresholds()

	first := Classify(s, thresholds)
	second := Classify(s, thresholds)

	assert.Equal(t, first.Classification, second.Classification)
	assert.True(t, first.ConfidenceScore.Equal(second.ConfidenceScore))
	assert.True(t, first.ConfidencePercentage.Equal(second.ConfidencePercentage))
	assert.Equal(t, first.Reason, second.Reason)
}

func TestClassify_ConfidenceMonotonic(t *testing.T) {
	thresholds := DefaultThresholds()

	// Comfortable margins read as high confidence
	comfortable := Classify(snapshot(dec("0.01"), dec("0.001"), dec("0.01"), dec("0.01")), thresholds)
	// Brushing the debt threshold reads as low confidence even though Halal
	nearMiss := Classify(snapshot(dec("0.32"), dec("0.001"), dec("0.01"), dec("0.01")), thresholds)

	require.Equal(t, types.ClassificationHalal, comfortable.Classification)
	require.Equal(t, types.ClassificationHalal, nearMiss.Classification)
	assert.True(t, comfortable.ConfidenceScore.GreaterThan(nearMiss.ConfidenceScore),
		"comfortable margin %s should outscore near miss %s",
		comfortable.ConfidenceScore, nearMiss.ConfidenceScore)

	// A decisive violation reads as more confident than a marginal one
	marginal := Classify(snapshot(dec("0.34"), nil, nil, nil), thresholds)
	decisive := Classify(snapshot(dec("0.90"), nil, nil, nil), thresholds)
	assert.True(t, decisive.ConfidenceScore.GreaterThan(marginal.ConfidenceScore))
}

func TestClassify_MissingRatios(t *testing.T) {
	thresholds := DefaultThresholds()

	// Missing ratios never violate their rule and never fail the engine,
	// but they cap the confidence score
	verdict := Classify(snapshot(dec("0.10"), nil, nil, nil), thresholds)
	assert.Equal(t, types.ClassificationHalal, verdict.Classification)
	assert.True(t, verdict.ConfidenceScore.LessThanOrEqual(thresholds.MissingRatioConfidenceCap))

	// Even a fully empty snapshot produces a verdict
	empty := Classify(snapshot(nil, nil, nil, nil), thresholds)
	assert.Equal(t, types.ClassificationHalal, empty.Classification)
	assert.True(t, empty.ConfidenceScore.LessThanOrEqual(thresholds.MissingRatioConfidenceCap))
}

func TestClassify_ConfidencePercentageBounds(t *testing.T) {
	thresholds := DefaultThresholds()
	for _, s := range []*ratio.Snapshot{
		snapshot(dec("0"), dec("0"), dec("0"), dec("0")),
		snapshot(dec("1"), dec("1"), dec("1"), dec("1")),
		snapshot(dec("0.33"), dec("0.05"), dec("0.33"), dec("0.49")),
		snapshot(nil, nil, nil, nil),
	} {
		verdict := Classify(s, thresholds)
		assert.True(t, verdict.ConfidencePercentage.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, verdict.ConfidencePercentage.LessThanOrEqual(decimal.NewFromInt(100)))
	}
}
