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

type SubscriptionHandler struct {
	service service.SubscriptionService
	pricing service.PricingService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, pricing service.PricingService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, pricing: pricing, log: log}
}

// @Summary Get the current subscription
// @Description Get the caller's subscription state and quota usage
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /subscription [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID := types.GetUserID(c.Request.Context())

	resp, err := h.service.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Subscribe to a plan
// @Description Move the caller onto the requested plan and billing cycle
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.SubscribeRequest true "Target plan"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscription [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	userID := types.GetUserID(c.Request.Context())
	resp, err := h.service.Subscribe(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel the subscription
// @Description Move the caller back to the free plan
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /subscription [delete]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID := types.GetUserID(c.Request.Context())

	resp, err := h.service.Cancel(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List subscription changes
// @Description List the caller's plan change history, oldest first
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.ListChangeLogResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /subscription/changes [get]
func (h *SubscriptionHandler) ListChangeLog(c *gin.Context) {
	userID := types.GetUserID(c.Request.Context())

	resp, err := h.service.ListChangeLog(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get the plan catalog
// @Description Get plan comparison data with tax-inclusive prices
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.PlanCatalogResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /plans [get]
func (h *SubscriptionHandler) GetPlanCatalog(c *gin.Context) {
	resp, err := h.pricing.GetPlanCatalog(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
