package screening

import (
	"github.com/shopspring/decimal"

	"github.com/shariahscreen/shariahscreen/internal/domain/ratio"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// rule is one threshold screen. Rules are evaluated in a fixed priority
// order: the first violated rule determines both the classification and the
// disqualification reason, regardless of how badly later rules are violated.
type rule struct {
	value     func(*ratio.Snapshot) *decimal.Decimal
	threshold func(Thresholds) decimal.Decimal
	outcome   types.Classification
	reason    string
}

var rules = []rule{
	{
		value:     func(s *ratio.Snapshot) *decimal.Decimal { return s.DebtToAssets },
		threshold: func(t Thresholds) decimal.Decimal { return t.DebtToAssets },
		outcome:   types.ClassificationNotHalal,
		reason:    types.HaramReasonExcessiveDebt,
	},
	{
		value:     func(s *ratio.Snapshot) *decimal.Decimal { return s.InterestIncomeToRevenue },
		threshold: func(t Thresholds) decimal.Decimal { return t.InterestIncomeToRevenue },
		outcome:   types.ClassificationNotHalal,
		reason:    types.HaramReasonExcessiveInterestIncome,
	},
	{
		value:     func(s *ratio.Snapshot) *decimal.Decimal { return s.CashAndInterestSecuritiesToAssets },
		threshold: func(t Thresholds) decimal.Decimal { return t.CashAndInterestSecuritiesToAssets },
		outcome:   types.ClassificationNotHalal,
		reason:    types.HaramReasonExcessiveInterestAssets,
	},
	{
		value:     func(s *ratio.Snapshot) *decimal.Decimal { return s.ReceivablesToAssets },
		threshold: func(t Thresholds) decimal.Decimal { return t.ReceivablesToAssets },
		outcome:   types.ClassificationDoubtful,
		reason:    types.HaramReasonElevatedReceivables,
	},
}

// Classify maps a ratio snapshot to a compliance verdict. It is a pure
// function: no I/O, no side effects, and it never fails — missing ratios
// degrade the confidence score instead of producing an error.
func Classify(snapshot *ratio.Snapshot, thresholds Thresholds) Verdict {
	var violated *rule
	for i := range rules {
		r := &rules[i]
		v := r.value(snapshot)
		// A missing ratio never violates its rule
		if v != nil && v.GreaterThan(r.threshold(thresholds)) {
			violated = r
			break
		}
	}

	if violated != nil {
		score := violationConfidence(violated.value(snapshot), violated.threshold(thresholds))
		score = capForMissingRatios(score, snapshot, thresholds)
		return Verdict{
			Classification:       violated.outcome,
			ConfidenceScore:      score,
			ConfidencePercentage: toPercentage(score),
			Reason:               violated.reason,
		}
	}

	score := complianceConfidence(snapshot, thresholds)
	score = capForMissingRatios(score, snapshot, thresholds)
	return Verdict{
		Classification:       types.ClassificationHalal,
		ConfidenceScore:      score,
		ConfidencePercentage: toPercentage(score),
	}
}

// complianceConfidence is the smallest relative margin to threshold across
// the present ratios: a ratio comfortably under its threshold contributes a
// margin near 1, a ratio brushing its threshold drags the score toward 0.
func complianceConfidence(snapshot *ratio.Snapshot, thresholds Thresholds) decimal.Decimal {
	score := one
	for i := range rules {
		r := &rules[i]
		v := r.value(snapshot)
		if v == nil {
			continue
		}
		threshold := r.threshold(thresholds)
		if threshold.IsZero() {
			continue
		}
		margin := threshold.Sub(*v).Div(threshold)
		margin = clamp01(margin)
		if margin.LessThan(score) {
			score = margin
		}
	}
	return score.Round(4)
}

// violationConfidence measures how decisively the violating ratio overshoots
// its threshold: just over reads as low confidence, far over as high.
func violationConfidence(value *decimal.Decimal, threshold decimal.Decimal) decimal.Decimal {
	if value == nil || threshold.IsZero() {
		return decimal.Zero
	}
	overshoot := value.Sub(threshold).Div(threshold)
	return clamp01(overshoot).Round(4)
}

func capForMissingRatios(score decimal.Decimal, snapshot *ratio.Snapshot, thresholds Thresholds) decimal.Decimal {
	if len(snapshot.MissingRatios()) == 0 {
		return score
	}
	if score.GreaterThan(thresholds.MissingRatioConfidenceCap) {
		return thresholds.MissingRatioConfidenceCap
	}
	return score
}

func toPercentage(score decimal.Decimal) decimal.Decimal {
	return clamp01(score).Mul(hundred).Round(2)
}

func clamp01(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(one) {
		return one
	}
	return d
}
