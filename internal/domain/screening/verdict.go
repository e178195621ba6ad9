package screening

import (
	"github.com/shopspring/decimal"

	"github.com/shariahscreen/shariahscreen/internal/types"
)

// Verdict is the compliance result derived from a ratio snapshot. It is
// never persisted independently of the snapshot it was computed from.
type Verdict struct {
	Classification types.Classification `json:"Initial_Classification"`

	// ConfidenceScore is a deterministic certainty measure in [0, 1];
	// higher means more certain. ConfidencePercentage is the same value
	// normalized to [0, 100] and rounded to 2 decimal places.
	ConfidenceScore      decimal.Decimal `json:"Shariah_Confidence_Score"`
	ConfidencePercentage decimal.Decimal `json:"Shariah_Confidence_Percentage"`

	// Reason is non-empty iff Classification != Halal
	Reason string `json:"Haram_Reason,omitempty"`
}

// IsHalal returns true for fully compliant verdicts
func (v Verdict) IsHalal() bool {
	return v.Classification == types.ClassificationHalal
}
