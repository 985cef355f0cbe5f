package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardStats returns the recomputed summary counters.
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.store.DashboardStats(c.Request.Context())
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RobotDistributionByFarm returns per-farm robot counts in farm
// insertion order.
func (h *Handler) RobotDistributionByFarm(c *gin.Context) {
	dist, err := h.store.RobotDistributionByFarm(c.Request.Context())
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dist)
}

// RobotStatusOverview returns the three robot status buckets.
func (h *Handler) RobotStatusOverview(c *gin.Context) {
	overview, err := h.store.RobotStatusOverview(c.Request.Context())
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// FarmStatusDistribution returns active vs inactive farm counts.
func (h *Handler) FarmStatusDistribution(c *gin.Context) {
	dist, err := h.store.FarmStatusDistribution(c.Request.Context())
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dist)
}
