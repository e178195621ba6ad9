package ratio

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// Snapshot is one observation of a company's financial ratios, taken from a
// filing or report. Snapshots are immutable: a new observation creates a new
// snapshot, never mutates an old one. Ratios are fractions in [0, 1] and may
// be nil when the underlying filing did not report them.
type Snapshot struct {
	ID       string `json:"id"`
	Symbol   string `json:"SYMBOL"`
	Sector   string `json:"Sector,omitempty"`
	Industry string `json:"Industry,omitempty"`

	DebtToAssets                      *decimal.Decimal `json:"Debt_to_Assets,omitempty"`
	InterestIncomeToRevenue           *decimal.Decimal `json:"Interest_Income_to_Revenue,omitempty"`
	CashAndInterestSecuritiesToAssets *decimal.Decimal `json:"Cash_and_Interest_Securities_to_Assets,omitempty"`
	ReceivablesToAssets               *decimal.Decimal `json:"Receivables_to_Assets,omitempty"`

	// ObservedAt is the timestamp of the underlying filing. It doubles as the
	// snapshot version: a verdict cached against it is valid only while it is
	// the latest observation for the symbol.
	ObservedAt time.Time `json:"date"`

	types.BaseModel
}

// Validate validates the snapshot
func (s *Snapshot) Validate() error {
	if s.Symbol == "" {
		return ierr.NewError("symbol is required").
			WithHint("Snapshot symbol is required").
			Mark(ierr.ErrValidation)
	}
	if s.ObservedAt.IsZero() {
		return ierr.NewError("observation date is required").
			WithHint("Snapshot observation date is required").
			Mark(ierr.ErrValidation)
	}
	for name, r := range map[string]*decimal.Decimal{
		"Debt_to_Assets":                         s.DebtToAssets,
		"Interest_Income_to_Revenue":             s.InterestIncomeToRevenue,
		"Cash_and_Interest_Securities_to_Assets": s.CashAndInterestSecuritiesToAssets,
		"Receivables_to_Assets":                  s.ReceivablesToAssets,
	} {
		if r != nil && (r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1))) {
			return ierr.NewErrorf("ratio %s out of range: %s", name, r).
				WithHint("Ratios must be fractions between 0 and 1").
				WithReportableDetails(map[string]interface{}{
					"ratio": name,
					"value": r.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// MissingRatios returns the names of ratios absent from the snapshot
func (s *Snapshot) MissingRatios() []string {
	var missing []string
	if s.DebtToAssets == nil {
		missing = append(missing, "Debt_to_Assets")
	}
	if s.InterestIncomeToRevenue == nil {
		missing = append(missing, "Interest_Income_to_Revenue")
	}
	if s.CashAndInterestSecuritiesToAssets == nil {
		missing = append(missing, "Cash_and_Interest_Securities_to_Assets")
	}
	if s.ReceivablesToAssets == nil {
		missing = append(missing, "Receivables_to_Assets")
	}
	return missing
}
