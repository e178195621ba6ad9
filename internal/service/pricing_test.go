package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/shariahscreen/shariahscreen/internal/testutil"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPricingService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		Cache:            s.GetCache(),
		Locker:           s.GetLocker(),
		SnapshotRepo:     s.GetStores().SnapshotRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		WatchlistRepo:    s.GetStores().WatchlistRepo,
	})
}

func (s *PricingServiceSuite) TestGetPriceBreakdown() {
	testCases := []struct {
		name     string
		plan     types.PlanTier
		cycle    types.BillingCycle
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "basic monthly",
			plan:     types.PlanTierBasic,
			cycle:    types.BillingCycleMonthly,
			subtotal: "299.00",
			tax:      "53.82",
			total:    "352.82",
		},
		{
			name:     "basic annual",
			plan:     types.PlanTierBasic,
			cycle:    types.BillingCycleAnnual,
			subtotal: "1999.00",
			tax:      "359.82",
			total:    "2358.82",
		},
		{
			name:     "premium monthly",
			plan:     types.PlanTierPremium,
			cycle:    types.BillingCycleMonthly,
			subtotal: "499.00",
			tax:      "89.82",
			total:    "588.82",
		},
		{
			name:     "premium annual",
			plan:     types.PlanTierPremium,
			cycle:    types.BillingCycleAnnual,
			subtotal: "2999.00",
			tax:      "539.82",
			total:    "3538.82",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			breakdown, err := s.service.GetPriceBreakdown(s.GetContext(), tc.plan, tc.cycle)
			s.NoError(err)
			s.True(breakdown.Subtotal.Equal(decimal.RequireFromString(tc.subtotal)),
				"subtotal %s != %s", breakdown.Subtotal, tc.subtotal)
			s.True(breakdown.Tax.Equal(decimal.RequireFromString(tc.tax)),
				"tax %s != %s", breakdown.Tax, tc.tax)
			s.True(breakdown.Total.Equal(decimal.RequireFromString(tc.total)),
				"total %s != %s", breakdown.Total, tc.total)
			s.True(breakdown.Total.Equal(breakdown.Subtotal.Add(breakdown.Tax)))
		})
	}
}

func (s *PricingServiceSuite) TestGetPriceBreakdownFreePlan() {
	_, err := s.service.GetPriceBreakdown(s.GetContext(), types.PlanTierFree, types.BillingCycleMonthly)
	s.Error(err)
}

func (s *PricingServiceSuite) TestGetPriceBreakdownInvalidCycle() {
	_, err := s.service.GetPriceBreakdown(s.GetContext(), types.PlanTierBasic, types.BillingCycle("weekly"))
	s.Error(err)
}

func (s *PricingServiceSuite) TestGetPlanCatalog() {
	catalog, err := s.service.GetPlanCatalog(s.GetContext())
	s.NoError(err)
	s.Len(catalog.Plans, 3)

	free := catalog.Plans[0]
	s.Equal(types.PlanTierFree, free.Plan)
	s.NotNil(free.ViewQuota)
	s.Equal(3, *free.ViewQuota)
	s.Equal(0, free.WatchlistLimit)
	s.Empty(free.Prices)

	basic := catalog.Plans[1]
	s.Equal(types.PlanTierBasic, basic.Plan)
	s.Nil(basic.ViewQuota)
	s.Equal(10, basic.WatchlistLimit)
	s.Len(basic.Prices, 2)

	premium := catalog.Plans[2]
	s.Equal(types.PlanTierPremium, premium.Plan)
	s.Equal(25, premium.WatchlistLimit)
	s.Len(premium.Prices, 2)
}
