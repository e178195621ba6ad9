package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/shariahscreen/shariahscreen/internal/api/dto"
	"github.com/shariahscreen/shariahscreen/internal/cache"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/testutil"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

type ScreeningServiceSuite struct {
	testutil.BaseServiceTestSuite
	params        ServiceParams
	service       ScreeningService
	subscriptions SubscriptionService
}

func TestScreeningService(t *testing.T) {
	suite.Run(t, new(ScreeningServiceSuite))
}

func (s *ScreeningServiceSuite) SetupTest() {
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
	s.service = NewScreeningService(s.params)
	s.subscriptions = NewSubscriptionService(s.params)
}

func ratioPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func (s *ScreeningServiceSuite) createSnapshot(symbol, sector string, observedAt time.Time, debt, interestIncome, interestAssets, receivables string) {
	req := &dto.CreateSnapshotRequest{
		Symbol:     symbol,
		Sector:     sector,
		ObservedAt: observedAt,
	}
	if debt != "" {
		req.DebtToAssets = ratioPtr(debt)
	}
	if interestIncome != "" {
		req.InterestIncomeToRevenue = ratioPtr(interestIncome)
	}
	if interestAssets != "" {
		req.CashAndInterestSecuritiesToAssets = ratioPtr(interestAssets)
	}
	if receivables != "" {
		req.ReceivablesToAssets = ratioPtr(receivables)
	}
	_, err := s.service.CreateSnapshot(s.GetContext(), req)
	s.Require().NoError(err)
}

func (s *ScreeningServiceSuite) subscribePremium(userID string) {
	_, err := s.subscriptions.Subscribe(s.GetContext(), userID, &dto.SubscribeRequest{
		Plan:         types.PlanTierPremium,
		BillingCycle: types.BillingCycleMonthly,
	})
	s.Require().NoError(err)
}

func (s *ScreeningServiceSuite) TestGetComplianceHalal() {
	observed := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	s.createSnapshot("INFY", "Technology", observed, "0.10", "0.01", "0.15", "0.20")

	resp, err := s.service.GetCompliance(s.GetContext(), "user_halal", "INFY")
	s.NoError(err)
	s.Equal(types.ClassificationHalal, resp.Classification)
	s.Empty(resp.Reason)
	s.True(resp.ConfidenceScore.GreaterThan(decimal.Zero))
	s.Equal(observed, resp.ObservedAt)
}

func (s *ScreeningServiceSuite) TestGetComplianceViolation() {
	observed := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	s.createSnapshot("LEVERED", "Financials", observed, "0.50", "0.01", "0.15", "0.20")

	resp, err := s.service.GetCompliance(s.GetContext(), "user_violation", "LEVERED")
	s.NoError(err)
	s.Equal(types.ClassificationNotHalal, resp.Classification)
	s.Equal(types.HaramReasonExcessiveDebt, resp.Reason)
}

func (s *ScreeningServiceSuite) TestGetComplianceUnknownSymbol() {
	_, err := s.service.GetCompliance(s.GetContext(), "user_unknown", "NOPE")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ScreeningServiceSuite) TestUnknownSymbolDoesNotConsumeQuota() {
	observed := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.createSnapshot(fmt.Sprintf("REAL%d", i), "Technology", observed, "0.10", "0.01", "0.15", "0.20")
	}

	// A free user fat-fingers three symbols; none of the misses may burn a
	// quota slot
	userID := "user_typos"
	for i := 0; i < 3; i++ {
		_, err := s.service.GetCompliance(s.GetContext(), userID, fmt.Sprintf("TYPO%d", i))
		s.Error(err)
		s.True(ierr.IsNotFound(err))
	}

	sub, err := s.subscriptions.GetSubscription(s.GetContext(), userID)
	s.NoError(err)
	s.Equal(0, sub.ViewsUsed)

	// The full quota is still available for symbols that exist
	for i := 0; i < 3; i++ {
		_, err := s.service.GetCompliance(s.GetContext(), userID, fmt.Sprintf("REAL%d", i))
		s.NoError(err)
	}
}

func (s *ScreeningServiceSuite) TestGetComplianceQuotaDenied() {
	observed := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s.createSnapshot(fmt.Sprintf("SYM%d", i), "Technology", observed, "0.10", "0.01", "0.15", "0.20")
	}

	userID := "user_quota"
	for i := 0; i < 3; i++ {
		_, err := s.service.GetCompliance(s.GetContext(), userID, fmt.Sprintf("SYM%d", i))
		s.NoError(err)
	}

	_, err := s.service.GetCompliance(s.GetContext(), userID, "SYM3")
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	// A consumed symbol stays viewable
	_, err = s.service.GetCompliance(s.GetContext(), userID, "SYM0")
	s.NoError(err)
}

func (s *ScreeningServiceSuite) TestNewObservationRecomputesVerdict() {
	userID := "user_recompute"
	s.subscribePremium(userID)

	first := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	s.createSnapshot("DRIFT", "Industrials", first, "0.10", "0.01", "0.15", "0.20")

	resp, err := s.service.GetCompliance(s.GetContext(), userID, "DRIFT")
	s.NoError(err)
	s.Equal(types.ClassificationHalal, resp.Classification)

	// A newer filing breaches the debt screen; the cached verdict for the old
	// observation must not be served
	second := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	s.createSnapshot("DRIFT", "Industrials", second, "0.60", "0.01", "0.15", "0.20")

	resp, err = s.service.GetCompliance(s.GetContext(), userID, "DRIFT")
	s.NoError(err)
	s.Equal(types.ClassificationNotHalal, resp.Classification)
	s.Equal(types.HaramReasonExcessiveDebt, resp.Reason)
	s.Equal(second, resp.ObservedAt)
}

func (s *ScreeningServiceSuite) TestGetComplianceIsDeterministic() {
	userID := "user_deterministic"
	s.subscribePremium(userID)

	observed := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	s.createSnapshot("STABLE", "Technology", observed, "0.20", "0.02", "0.25", "0.30")

	first, err := s.service.GetCompliance(s.GetContext(), userID, "STABLE")
	s.NoError(err)

	// Repeated reads serve the identical verdict, cached or not
	for i := 0; i < 5; i++ {
		resp, err := s.service.GetCompliance(s.GetContext(), userID, "STABLE")
		s.NoError(err)
		s.Equal(first.Classification, resp.Classification)
		s.True(first.ConfidenceScore.Equal(resp.ConfidenceScore))
		s.True(first.ConfidencePercentage.Equal(resp.ConfidencePercentage))
	}
}

// settingCountCache counts writes so tests can assert how many times the
// engine actually ran behind the cache
type settingCountCache struct {
	cache.Cache
	sets atomic.Int64
}

func (c *settingCountCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	c.sets.Add(1)
	c.Cache.Set(ctx, key, value, expiration)
}

func (s *ScreeningServiceSuite) TestConcurrentColdReadsClassifyOnce() {
	userID := "user_stampede"
	s.subscribePremium(userID)

	observed := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	s.createSnapshot("HERD", "Technology", observed, "0.20", "0.02", "0.25", "0.30")

	// Fresh cache behind a counting wrapper, so the first read is a miss and
	// every engine run leaves exactly one write behind
	counting := &settingCountCache{Cache: cache.NewInMemoryCache()}
	params := s.params
	params.Cache = counting
	svc := NewScreeningService(params)

	const readers = 16
	responses := make([]*dto.ComplianceResponse, readers)
	errs := make([]error, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i], errs[i] = svc.GetCompliance(s.GetContext(), userID, "HERD")
		}(i)
	}
	wg.Wait()

	for i := 0; i < readers; i++ {
		s.Require().NoError(errs[i])
		s.Equal(responses[0].Classification, responses[i].Classification)
		s.True(responses[0].ConfidenceScore.Equal(responses[i].ConfidenceScore))
	}

	// All concurrent misses collapse into a single classification
	s.Equal(int64(1), counting.sets.Load())
}

func (s *ScreeningServiceSuite) TestListComplianceFilters() {
	observed := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	s.createSnapshot("TECH1", "Technology", observed, "0", "0", "0", "0")
	s.createSnapshot("TECH2", "Technology", observed, "0.20", "0.01", "0.15", "0.20")
	s.createSnapshot("BANK1", "Financials", observed, "0.60", "0.30", "0.70", "0.20")

	resp, err := s.service.ListCompliance(s.GetContext(), &dto.ListComplianceRequest{
		Sectors: []string{"Technology"},
	})
	s.NoError(err)
	s.Equal(2, resp.Total)
	for _, item := range resp.Items {
		s.Equal("Technology", item.Sector)
	}

	// High confidence narrows to Halal verdicts at full confidence
	resp, err = s.service.ListCompliance(s.GetContext(), &dto.ListComplianceRequest{
		HighConfidenceOnly: true,
	})
	s.NoError(err)
	s.Require().Equal(1, resp.Total)
	s.Equal("TECH1", resp.Items[0].Symbol)
	s.True(resp.Items[0].ConfidencePercentage.Equal(decimal.NewFromInt(100)))
}

func (s *ScreeningServiceSuite) TestCreateSnapshotValidation() {
	_, err := s.service.CreateSnapshot(s.GetContext(), &dto.CreateSnapshotRequest{
		ObservedAt: time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Ratios outside [0, 1] are rejected
	_, err = s.service.CreateSnapshot(s.GetContext(), &dto.CreateSnapshotRequest{
		Symbol:       "BAD",
		ObservedAt:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		DebtToAssets: ratioPtr("1.5"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
