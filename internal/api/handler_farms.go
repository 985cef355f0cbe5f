package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/store"
)

// ListFarms returns all farms with derived robot counts.
func (h *Handler) ListFarms(c *gin.Context) {
	farms, err := h.store.ListFarms(c.Request.Context())
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, farms)
}

// GetFarm returns a single farm by id.
func (h *Handler) GetFarm(c *gin.Context) {
	farm, err := h.store.GetFarm(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, farm)
}

type createFarmRequest struct {
	Name           string               `json:"name" binding:"required"`
	Location       string               `json:"location"`
	GPSCoordinates model.GPSCoordinates `json:"gpsCoordinates"`
	FarmerID       string               `json:"farmerId" binding:"required"`
	Image          string               `json:"image"`
	Status         model.FarmStatus     `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CreateFarm adds a farm owned by an existing farmer.
func (h *Handler) CreateFarm(c *gin.Context) {
	var req createFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	farm, err := h.store.CreateFarm(c.Request.Context(), store.NewFarm{
		Name:           req.Name,
		Location:       req.Location,
		GPSCoordinates: req.GPSCoordinates,
		FarmerID:       req.FarmerID,
		Image:          req.Image,
		Status:         req.Status,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, farm)
}

type updateFarmRequest struct {
	Name           *string               `json:"name"`
	Location       *string               `json:"location"`
	GPSCoordinates *model.GPSCoordinates `json:"gpsCoordinates"`
	FarmerID       *string               `json:"farmerId"`
	Image          *string               `json:"image"`
	Status         *model.FarmStatus     `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateFarm shallow-merges the provided fields.
func (h *Handler) UpdateFarm(c *gin.Context) {
	var req updateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	farm, err := h.store.UpdateFarm(c.Request.Context(), c.Param("id"), store.FarmPatch{
		Name:           req.Name,
		Location:       req.Location,
		GPSCoordinates: req.GPSCoordinates,
		FarmerID:       req.FarmerID,
		Image:          req.Image,
		Status:         req.Status,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, farm)
}

// DeleteFarm removes the farm, unassigning its robots first, and returns
// the pre-deletion snapshot.
func (h *Handler) DeleteFarm(c *gin.Context) {
	farm, err := h.store.DeleteFarm(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, farm)
}
