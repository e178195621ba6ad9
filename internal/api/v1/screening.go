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

type ScreeningHandler struct {
	service service.ScreeningService
	log     *logger.Logger
}

func NewScreeningHandler(service service.ScreeningService, log *logger.Logger) *ScreeningHandler {
	return &ScreeningHandler{service: service, log: log}
}

// @Summary Ingest a ratio snapshot
// @Description Record a new financial ratio observation for a symbol
// @Tags Screening
// @Accept json
// @Produce json
// @Param snapshot body dto.CreateSnapshotRequest true "Ratio snapshot"
// @Success 201 {object} dto.ComplianceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /snapshots [post]
func (h *ScreeningHandler) CreateSnapshot(c *gin.Context) {
	var req dto.CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateSnapshot(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create snapshot", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get the compliance verdict for a symbol
// @Description Get the Shariah compliance verdict for the latest snapshot of a symbol. The view counts against the caller's plan quota.
// @Tags Screening
// @Produce json
// @Param symbol path string true "Stock symbol"
// @Success 200 {object} dto.ComplianceResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /screening/{symbol} [get]
func (h *ScreeningHandler) GetCompliance(c *gin.Context) {
	symbol := c.Param("symbol")
	userID := types.GetUserID(c.Request.Context())

	resp, err := h.service.GetCompliance(c.Request.Context(), userID, symbol)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List compliance verdicts
// @Description List compliance verdicts for the screening universe with optional sector, industry, and high-confidence filters
// @Tags Screening
// @Produce json
// @Param sectors query []string false "Sectors"
// @Param industries query []string false "Industries"
// @Param high_confidence_only query bool false "Only Halal verdicts at full confidence"
// @Success 200 {object} dto.ListComplianceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /screening [get]
func (h *ScreeningHandler) ListCompliance(c *gin.Context) {
	var req dto.ListComplianceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListCompliance(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
