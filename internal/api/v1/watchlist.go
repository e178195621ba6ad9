package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shariahscreen/shariahscreen/internal/api/dto"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/logger"
	"github.com/shariahscreen/shariahscreen/internal/service"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

type WatchlistHandler struct {
	service service.WatchlistService
	log     *logger.Logger
}

func NewWatchlistHandler(service service.WatchlistService, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{service: service, log: log}
}

// @Summary Add a watchlist entry
// @Description Add a symbol to the caller's watchlist, subject to the plan's storage cap
// @Tags Watchlists
// @Accept json
// @Produce json
// @Param item body dto.AddWatchlistItemRequest true "Watchlist entry"
// @Success 201 {object} dto.WatchlistItemResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /watchlist [post]
func (h *WatchlistHandler) AddItem(c *gin.Context) {
	var req dto.AddWatchlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	userID := types.GetUserID(c.Request.Context())
	resp, err := h.service.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Remove a watchlist entry
// @Description Remove a symbol from the caller's watchlist
// @Tags Watchlists
// @Produce json
// @Param symbol path string true "Stock symbol"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /watchlist/{symbol} [delete]
func (h *WatchlistHandler) RemoveItem(c *gin.Context) {
	userID := types.GetUserID(c.Request.Context())

	if err := h.service.RemoveItem(c.Request.Context(), userID, c.Param("symbol")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List the watchlist
// @Description List the caller's watchlist entries
// @Tags Watchlists
// @Produce json
// @Success 200 {object} dto.ListWatchlistResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /watchlist [get]
func (h *WatchlistHandler) ListItems(c *gin.Context) {
	userID := types.GetUserID(c.Request.Context())

	resp, err := h.service.ListItems(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
