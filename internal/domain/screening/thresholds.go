package screening

import (
	"github.com/shopspring/decimal"
)

// Thresholds holds the compliance cutoffs per financial ratio. A ratio above
// its threshold violates the corresponding screening rule.
type Thresholds struct {
	DebtToAssets                      decimal.Decimal
	InterestIncomeToRevenue           decimal.Decimal
	CashAndInterestSecuritiesToAssets decimal.Decimal
	ReceivablesToAssets               decimal.Decimal

	// MissingRatioConfidenceCap caps the confidence score when a snapshot is
	// missing one or more ratios, so degraded inputs read as low confidence.
	MissingRatioConfidenceCap decimal.Decimal
}

// NewThresholds builds Thresholds from fractional cutoff values
func NewThresholds(debtToAssets, interestIncome, interestBearingAssets, receivables, missingRatioCap float64) Thresholds {
	return Thresholds{
		DebtToAssets:                      decimal.NewFromFloat(debtToAssets),
		InterestIncomeToRevenue:           decimal.NewFromFloat(interestIncome),
		CashAndInterestSecuritiesToAssets: decimal.NewFromFloat(interestBearingAssets),
		ReceivablesToAssets:               decimal.NewFromFloat(receivables),
		MissingRatioConfidenceCap:         decimal.NewFromFloat(missingRatioCap),
	}
}

// DefaultThresholds returns the standard screening cutoffs
func DefaultThresholds() Thresholds {
	return NewThresholds(0.33, 0.05, 0.33, 0.49, 0.5)
}
