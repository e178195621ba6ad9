package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shariahscreen/shariahscreen/internal/domain/ratio"
	"github.com/shariahscreen/shariahscreen/internal/domain/screening"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
	"github.com/shariahscreen/shariahscreen/internal/validator"
)

// CreateSnapshotRequest represents the request to ingest a new ratio
// observation for a symbol
type CreateSnapshotRequest struct {
	Symbol   string `json:"SYMBOL" validate:"required"`
	Sector   string `json:"Sector,omitempty"`
	Industry string `json:"Industry,omitempty"`

	DebtToAssets                      *decimal.Decimal `json:"Debt_to_Assets,omitempty"`
	InterestIncomeToRevenue           *decimal.Decimal `json:"Interest_Income_to_Revenue,omitempty"`
	CashAndInterestSecuritiesToAssets *decimal.Decimal `json:"Cash_and_Interest_Securities_to_Assets,omitempty"`
	ReceivablesToAssets               *decimal.Decimal `json:"Receivables_to_Assets,omitempty"`

	ObservedAt time.Time `json:"date" validate:"required"`
}

// Validate validates the create snapshot request
func (r *CreateSnapshotRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.ObservedAt.After(time.Now().UTC()) {
		return ierr.NewError("observation date cannot be in the future").
			WithHint("Observation date cannot be in the future").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToSnapshot converts the request to a ratio snapshot domain model
func (r *CreateSnapshotRequest) ToSnapshot(ctx context.Context) *ratio.Snapshot {
	return &ratio.Snapshot{
		ID:                                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SNAPSHOT),
		Symbol:                            r.Symbol,
		Sector:                            r.Sector,
		Industry:                          r.Industry,
		DebtToAssets:                      r.DebtToAssets,
		InterestIncomeToRevenue:           r.InterestIncomeToRevenue,
		CashAndInterestSecuritiesToAssets: r.CashAndInterestSecuritiesToAssets,
		ReceivablesToAssets:               r.ReceivablesToAssets,
		ObservedAt:                        r.ObservedAt,
		BaseModel:                         types.GetDefaultBaseModel(ctx),
	}
}

// ComplianceResponse is the verdict for a symbol joined with the snapshot it
// was computed from. Field names mirror the persisted dataset columns.
type ComplianceResponse struct {
	Symbol   string `json:"SYMBOL"`
	Sector   string `json:"Sector,omitempty"`
	Industry string `json:"Industry,omitempty"`

	Classification       types.Classification `json:"Initial_Classification"`
	ConfidenceScore      decimal.Decimal      `json:"Shariah_Confidence_Score"`
	ConfidencePercentage decimal.Decimal      `json:"Shariah_Confidence_Percentage"`
	Reason               string               `json:"Haram_Reason,omitempty"`

	DebtToAssets                      *decimal.Decimal `json:"Debt_to_Assets,omitempty"`
	InterestIncomeToRevenue           *decimal.Decimal `json:"Interest_Income_to_Revenue,omitempty"`
	CashAndInterestSecuritiesToAssets *decimal.Decimal `json:"Cash_and_Interest_Securities_to_Assets,omitempty"`
	ReceivablesToAssets               *decimal.Decimal `json:"Receivables_to_Assets,omitempty"`

	ObservedAt time.Time `json:"date"`
}

// NewComplianceResponse joins a snapshot with its computed verdict
func NewComplianceResponse(snapshot *ratio.Snapshot, verdict screening.Verdict) *ComplianceResponse {
	return &ComplianceResponse{
		Symbol:                            snapshot.Symbol,
		Sector:                            snapshot.Sector,
		Industry:                          snapshot.Industry,
		Classification:                    verdict.Classification,
		ConfidenceScore:                   verdict.ConfidenceScore,
		ConfidencePercentage:              verdict.ConfidencePercentage,
		Reason:                            verdict.Reason,
		DebtToAssets:                      snapshot.DebtToAssets,
		InterestIncomeToRevenue:           snapshot.InterestIncomeToRevenue,
		CashAndInterestSecuritiesToAssets: snapshot.CashAndInterestSecuritiesToAssets,
		ReceivablesToAssets:               snapshot.ReceivablesToAssets,
		ObservedAt:                        snapshot.ObservedAt,
	}
}

// ListComplianceRequest filters the screening universe
type ListComplianceRequest struct {
	Symbols    []string `json:"symbols,omitempty" form:"symbols"`
	Sectors    []string `json:"sectors,omitempty" form:"sectors"`
	Industries []string `json:"industries,omitempty" form:"industries"`

	// HighConfidenceOnly narrows the result to Halal verdicts at full
	// confidence
	HighConfidenceOnly bool `json:"high_confidence_only,omitempty" form:"high_confidence_only"`

	Limit int `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
}

// Validate validates the list compliance request
func (r *ListComplianceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToFilter converts the request to a snapshot filter
func (r *ListComplianceRequest) ToFilter() *ratio.Filter {
	return &ratio.Filter{
		Symbols:    r.Symbols,
		Sectors:    r.Sectors,
		Industries: r.Industries,
		Limit:      r.Limit,
	}
}

// ListComplianceResponse represents the response for listing compliance
// verdicts
type ListComplianceResponse struct {
	Items []*ComplianceResponse `json:"items"`
	Total int                   `json:"total"`
}
