package types

import (
	"github.com/samber/lo"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
)

// Classification is the Shariah compliance verdict for an equity
type Classification string

const (
	ClassificationHalal    Classification = "Halal"
	ClassificationNotHalal Classification = "Not Halal"
	ClassificationDoubtful Classification = "Doubtful"
)

func (c Classification) String() string {
	return string(c)
}

func (c Classification) Validate() error {
	allowed := []Classification{
		ClassificationHalal,
		ClassificationNotHalal,
		ClassificationDoubtful,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewErrorf("invalid classification: %s", c).
			WithHint("Please provide a valid classification").
			WithReportableDetails(map[string]interface{}{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Disqualification reasons surfaced alongside non-Halal verdicts. The text is
// part of the external contract consumed by the presentation layer.
const (
	HaramReasonExcessiveDebt           = "excessive debt ratio"
	HaramReasonExcessiveInterestIncome = "excessive interest income"
	HaramReasonExcessiveInterestAssets = "excessive interest-bearing assets"
	HaramReasonElevatedReceivables     = "elevated receivables ratio"
)

// DenialReason categorizes an entitlement denial
type DenialReason string

const (
	DenialReasonQuotaExceeded        DenialReason = "QuotaExceeded"
	DenialReasonStorageLimitExceeded DenialReason = "StorageLimitExceeded"
)

func (r DenialReason) String() string {
	return string(r)
}
