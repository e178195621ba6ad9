package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/shariahscreen/shariahscreen/internal/api/v1"
	"github.com/shariahscreen/shariahscreen/internal/auth"
	"github.com/shariahscreen/shariahscreen/internal/config"
	"github.com/shariahscreen/shariahscreen/internal/logger"
	"github.com/shariahscreen/shariahscreen/internal/rest/middleware"
)

// Handlers aggregates the versioned API handlers
type Handlers struct {
	Screening    *v1.ScreeningHandler
	Subscription *v1.SubscriptionHandler
	Watchlist    *v1.WatchlistHandler
}

// NewRouter builds the gin engine with the standard middleware chain and all
// v1 routes. Routes that act on behalf of a user sit behind the session
// authenticator; catalog and universe listings are public.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger, authenticator auth.SessionAuthenticator) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(log),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/v1")
	{
		public.GET("/plans", handlers.Subscription.GetPlanCatalog)
		public.GET("/screening", handlers.Screening.ListCompliance)
	}

	private := router.Group("/v1")
	private.Use(
		middleware.AuthenticateMiddleware(authenticator),
		middleware.SentryUserContextMiddleware,
	)
	{
		private.POST("/snapshots", handlers.Screening.CreateSnapshot)
		private.GET("/screening/:symbol", handlers.Screening.GetCompliance)

		private.GET("/subscription", handlers.Subscription.GetSubscription)
		private.POST("/subscription", handlers.Subscription.Subscribe)
		private.DELETE("/subscription", handlers.Subscription.Cancel)
		private.GET("/subscription/changes", handlers.Subscription.ListChangeLog)

		private.GET("/watchlist", handlers.Watchlist.ListItems)
		private.POST("/watchlist", handlers.Watchlist.AddItem)
		private.DELETE("/watchlist/:symbol", handlers.Watchlist.RemoveItem)
	}

	return router
}
