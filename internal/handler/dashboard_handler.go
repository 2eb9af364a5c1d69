package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kantah-go/arsip-vital-api/internal/service"
	"github.com/kantah-go/arsip-vital-api/pkg/response"
)

// DashboardHandler serves the aggregate archive counts.
type DashboardHandler struct {
	dashboard *service.DashboardService
	metrics   *service.MetricsService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard *service.DashboardService, metrics *service.MetricsService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, metrics: metrics}
}

// Counts godoc
// @Summary Dashboard counts
// @Description Total, current-month and pending entry counts for the index
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/counts [get]
func (h *DashboardHandler) Counts(c *gin.Context) {
	counts, err := h.dashboard.Counts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// Stats godoc
// @Summary Runtime metrics snapshot
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
