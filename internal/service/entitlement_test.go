package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shariahscreen/shariahscreen/internal/api/dto"
	"github.com/shariahscreen/shariahscreen/internal/testutil"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

type EntitlementServiceSuite struct {
	testutil.BaseServiceTestSuite
	params        ServiceParams
	service       EntitlementService
	subscriptions SubscriptionService
}

func TestEntitlementService(t *testing.T) {
	suite.Run(t, new(EntitlementServiceSuite))
}

func (s *EntitlementServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		Cache:            s.GetCache(),
		Locker:           s.GetLocker(),
		SnapshotRepo:     s.GetStores().SnapshotRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		WatchlistRepo:    s.GetStores().WatchlistRepo,
	}
	s.service = NewEntitlementService(s.params)
	s.subscriptions = NewSubscriptionService(s.params)
}

func (s *EntitlementServiceSuite) subscribe(userID string, plan types.PlanTier, cycle types.BillingCycle) {
	_, err := s.subscriptions.Subscribe(s.GetContext(), userID, &dto.SubscribeRequest{
		Plan:         plan,
		BillingCycle: cycle,
	})
	s.Require().NoError(err)
}

func (s *EntitlementServiceSuite) TestFreeQuotaBoundary() {
	userID := "user_free"

	// First three distinct symbols consume the quota
	for _, symbol := range []string{"AAPL", "MSFT", "INFY"} {
		result, err := s.service.AuthorizeView(s.GetContext(), userID, symbol)
		s.NoError(err)
		s.True(result.Allowed)
	}

	// Fourth distinct symbol is denied
	result, err := s.service.AuthorizeView(s.GetContext(), userID, "TSLA")
	s.NoError(err)
	s.False(result.Allowed)
	s.Equal(types.DenialReasonQuotaExceeded, result.Reason)
	s.Equal("View limit reached", result.Message)

	// Re-viewing an already consumed symbol stays free after exhaustion
	result, err = s.service.AuthorizeView(s.GetContext(), userID, "AAPL")
	s.NoError(err)
	s.True(result.Allowed)
}

func (s *EntitlementServiceSuite) TestPaidPlansUnlimited() {
	userID := "user_paid"
	s.subscribe(userID, types.PlanTierBasic, types.BillingCycleMonthly)

	for i := 0; i < 20; i++ {
		result, err := s.service.AuthorizeView(s.GetContext(), userID, fmt.Sprintf("SYM%d", i))
		s.NoError(err)
		s.True(result.Allowed)
	}
}

func (s *EntitlementServiceSuite) TestConcurrentViewsNeverOvershoot() {
	userID := "user_concurrent"

	const attempts = 12
	var wg sync.WaitGroup
	results := make([]*AuthorizationResult, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := s.service.AuthorizeView(s.GetContext(), userID, fmt.Sprintf("SYM%d", i))
			s.NoError(err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	allowed := 0
	for _, result := range results {
		if result.Allowed {
			allowed++
		}
	}
	s.Equal(s.GetConfig().Plans.FreeViewQuota, allowed)

	state, err := s.GetStores().SubscriptionRepo.GetState(s.GetContext(), userID)
	s.NoError(err)
	s.Equal(s.GetConfig().Plans.FreeViewQuota, state.DistinctViews())
}

func (s *EntitlementServiceSuite) TestMonthlyPeriodReset() {
	userID := "user_reset"

	for _, symbol := range []string{"AAPL", "MSFT", "INFY"} {
		result, err := s.service.AuthorizeView(s.GetContext(), userID, symbol)
		s.NoError(err)
		s.True(result.Allowed)
	}

	// Age the period anchor back one month; the next check must reset the
	// counters and re-admit a fresh symbol
	state, err := s.GetStores().SubscriptionRepo.GetState(s.GetContext(), userID)
	s.Require().NoError(err)
	state.PeriodStart = state.PeriodStart.AddDate(0, -1, 0)
	s.Require().NoError(s.GetStores().SubscriptionRepo.SaveState(s.GetContext(), state, nil))

	result, err := s.service.AuthorizeView(s.GetContext(), userID, "TSLA")
	s.NoError(err)
	s.True(result.Allowed)

	state, err = s.GetStores().SubscriptionRepo.GetState(s.GetContext(), userID)
	s.NoError(err)
	s.Equal(1, state.DistinctViews())
	s.Equal(CurrentPeriodStart(time.Now().UTC()), state.PeriodStart)
}

func (s *EntitlementServiceSuite) TestWatchlistCaps() {
	testCases := []struct {
		name  string
		plan  types.PlanTier
		cycle types.BillingCycle
		limit int
	}{
		{name: "free stores nothing", plan: types.PlanTierFree, limit: 0},
		{name: "basic stores ten", plan: types.PlanTierBasic, cycle: types.BillingCycleMonthly, limit: 10},
		{name: "premium stores twenty five", plan: types.PlanTierPremium, cycle: types.BillingCycleMonthly, limit: 25},
	}

	watchlists := NewWatchlistService(s.params)
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			userID := "user_" + string(tc.plan)
			if tc.plan.IsPaid() {
				s.subscribe(userID, tc.plan, tc.cycle)
			}

			for i := 0; i < tc.limit; i++ {
				_, err := watchlists.AddItem(s.GetContext(), userID, &dto.AddWatchlistItemRequest{
					Symbol: fmt.Sprintf("SYM%d", i),
				})
				s.NoError(err)
			}

			result, err := s.service.AuthorizeWatchlistAdd(s.GetContext(), userID)
			s.NoError(err)
			s.False(result.Allowed)
			s.Equal(types.DenialReasonStorageLimitExceeded, result.Reason)
		})
	}
}

func (s *EntitlementServiceSuite) TestCurrentPeriodStart() {
	now := time.Date(2025, time.March, 17, 9, 30, 0, 0, time.UTC)
	s.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), CurrentPeriodStart(now))

	// A non-UTC wall clock resolves to the UTC month boundary
	ist := time.FixedZone("IST", 5*3600+1800)
	s.Equal(
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		CurrentPeriodStart(time.Date(2025, time.March, 1, 3, 0, 0, 0, ist)),
	)
}
