package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/shariahscreen/shariahscreen/internal/cache"
	"github.com/shariahscreen/shariahscreen/internal/config"
	"github.com/shariahscreen/shariahscreen/internal/domain/ratio"
	"github.com/shariahscreen/shariahscreen/internal/domain/subscription"
	"github.com/shariahscreen/shariahscreen/internal/domain/watchlist"
	"github.com/shariahscreen/shariahscreen/internal/locks"
	"github.com/shariahscreen/shariahscreen/internal/logger"
	"github.com/shariahscreen/shariahscreen/internal/repository/memory"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// Stores aggregates the in-memory repositories used by service tests
type Stores struct {
	SnapshotRepo     ratio.Repository
	SubscriptionRepo subscription.Repository
	WatchlistRepo    watchlist.Repository
}

// NewStores creates fresh in-memory stores
func NewStores() Stores {
	return Stores{
		SnapshotRepo:     memory.NewRatioSnapshotStore(),
		SubscriptionRepo: memory.NewSubscriptionStore(),
		WatchlistRepo:    memory.NewWatchlistStore(),
	}
}

// BaseServiceTestSuite provides common setup for service tests: fresh
// stores, cache, lock manager, default config, and a context carrying a
// test user.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	log    *logger.Logger
	stores Stores
	cache  cache.Cache
	locker locks.Locker
}

// SetupTest initializes fresh state before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.stores = NewStores()
	s.cache = cache.NewInMemoryCache()
	s.locker = locks.NewManager()

	ctx := context.Background()
	ctx = types.SetUserID(ctx, "user_test")
	ctx = types.SetRequestID(ctx, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST))
	s.ctx = ctx
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLocker returns the test lock manager
func (s *BaseServiceTestSuite) GetLocker() locks.Locker {
	return s.locker
}

// ClearStores resets all stores to empty
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores = NewStores()
}
