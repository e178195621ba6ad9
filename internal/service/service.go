package service

import (
	"github.com/shariahscreen/shariahscreen/internal/cache"
	"github.com/shariahscreen/shariahscreen/internal/config"
	"github.com/shariahscreen/shariahscreen/internal/domain/ratio"
	"github.com/shariahscreen/shariahscreen/internal/domain/subscription"
	"github.com/shariahscreen/shariahscreen/internal/domain/watchlist"
	"github.com/shariahscreen/shariahscreen/internal/locks"
	"github.com/shariahscreen/shariahscreen/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	Cache  cache.Cache
	Locker locks.Locker

	SnapshotRepo     ratio.Repository
	SubscriptionRepo subscription.Repository
	WatchlistRepo    watchlist.Repository
}
