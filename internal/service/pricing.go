package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shariahscreen/shariahscreen/internal/api/dto"
	"github.com/shariahscreen/shariahscreen/internal/config"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

const priceCurrency = "INR"

// PricingService computes tax-inclusive plan prices and serves the plan
// catalog
type PricingService interface {
	GetPriceBreakdown(ctx context.Context, plan types.PlanTier, cycle types.BillingCycle) (*dto.PriceBreakdownResponse, error)
	GetPlanCatalog(ctx context.Context) (*dto.PlanCatalogResponse, error)
}

type pricingService struct {
	ServiceParams
}

// NewPricingService creates a new pricing service
func NewPricingService(params ServiceParams) PricingService {
	return &pricingService{
		ServiceParams: params,
	}
}

// GetPriceBreakdown returns the subtotal, tax, and total for one plan and
// cycle combination. Tax is computed on the subtotal and rounded to 2
// decimals before the final addition, so total == subtotal + tax exactly.
func (s *pricingService) GetPriceBreakdown(ctx context.Context, plan types.PlanTier, cycle types.BillingCycle) (*dto.PriceBreakdownResponse, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if !plan.IsPaid() {
		return nil, ierr.NewError("free plan has no price").
			WithHint("The free plan is not billed").
			Mark(ierr.ErrInvalidOperation)
	}
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	subtotal, err := s.basePrice(plan, cycle)
	if err != nil {
		return nil, err
	}
	taxRate, err := parsePriceAmount(s.Config.Plans.TaxRatePercent, "tax_rate_percent")
	if err != nil {
		return nil, err
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(tax)

	return &dto.PriceBreakdownResponse{
		Plan:         plan,
		BillingCycle: cycle,
		Currency:     priceCurrency,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        total,
	}, nil
}

// GetPlanCatalog returns the plan comparison data for all tiers
func (s *pricingService) GetPlanCatalog(ctx context.Context) (*dto.PlanCatalogResponse, error) {
	plans := []types.PlanTier{types.PlanTierFree, types.PlanTierBasic, types.PlanTierPremium}
	cycles := []types.BillingCycle{types.BillingCycleMonthly, types.BillingCycleAnnual}

	catalog := &dto.PlanCatalogResponse{}
	for _, plan := range plans {
		detail := &dto.PlanDetailResponse{
			Plan:           plan,
			ViewQuota:      viewQuotaForPlan(s.Config, plan),
			WatchlistLimit: watchlistLimitForPlan(s.Config, plan),
		}
		if plan.IsPaid() {
			for _, cycle := range cycles {
				breakdown, err := s.GetPriceBreakdown(ctx, plan, cycle)
				if err != nil {
					return nil, err
				}
				detail.Prices = append(detail.Prices, breakdown)
			}
		}
		catalog.Plans = append(catalog.Plans, detail)
	}
	return catalog, nil
}

func (s *pricingService) basePrice(plan types.PlanTier, cycle types.BillingCycle) (decimal.Decimal, error) {
	cfg := s.Config.Plans
	switch {
	case plan == types.PlanTierBasic && cycle == types.BillingCycleMonthly:
		return parsePriceAmount(cfg.BasicMonthlyPrice, "basic_monthly_price")
	case plan == types.PlanTierBasic && cycle == types.BillingCycleAnnual:
		return parsePriceAmount(cfg.BasicAnnualPrice, "basic_annual_price")
	case plan == types.PlanTierPremium && cycle == types.BillingCycleMonthly:
		return parsePriceAmount(cfg.PremiumMonthlyPrice, "premium_monthly_price")
	case plan == types.PlanTierPremium && cycle == types.BillingCycleAnnual:
		return parsePriceAmount(cfg.PremiumAnnualPrice, "premium_annual_price")
	default:
		return decimal.Zero, ierr.NewErrorf("no price configured for plan %s cycle %s", plan, cycle).
			WithHint("No price is configured for this plan").
			Mark(ierr.ErrInvalidOperation)
	}
}

func parsePriceAmount(raw, field string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("Invalid configured amount for %s", field).
			WithReportableDetails(map[string]interface{}{
				"field": field,
				"value": raw,
			}).
			Mark(ierr.ErrSystem)
	}
	return amount, nil
}

// viewQuotaForPlan returns the distinct-symbol view quota per period, or nil
// for unlimited plans
func viewQuotaForPlan(cfg *config.Configuration, plan types.PlanTier) *int {
	if plan.IsPaid() {
		return nil
	}
	quota := cfg.Plans.FreeViewQuota
	return &quota
}

// watchlistLimitForPlan returns the watchlist storage cap for a plan
func watchlistLimitForPlan(cfg *config.Configuration, plan types.PlanTier) int {
	switch plan {
	case types.PlanTierBasic:
		return cfg.Plans.BasicWatchlistLimit
	case types.PlanTierPremium:
		return cfg.Plans.PremiumWatchlistLimit
	default:
		return 0
	}
}
