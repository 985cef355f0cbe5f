package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/store"
	"farmwatch-backend/internal/timerange"
)

// ListReadings returns sensor readings matching the query filters:
// ?farmId= ?robotId= ?type= ?start= ?end=. The time window is inclusive
// on both ends; a malformed bound yields an empty result, not an error.
func (h *Handler) ListReadings(c *gin.Context) {
	window, ok := timerange.Parse(c.Query("start"), c.Query("end"))
	if !ok {
		c.JSON(http.StatusOK, []model.SensorReading{})
		return
	}

	readings, err := h.store.ListReadings(c.Request.Context(), store.ReadingFilter{
		FarmID:     c.Query("farmId"),
		RobotID:    c.Query("robotId"),
		SensorType: model.SensorType(c.Query("type")),
		Start:      window.Start,
		End:        window.End,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	if readings == nil {
		readings = []model.SensorReading{}
	}
	c.JSON(http.StatusOK, readings)
}

type createReadingRequest struct {
	FarmID     string           `json:"farmId" binding:"required"`
	RobotID    string           `json:"robotId" binding:"required"`
	SensorType model.SensorType `json:"sensorType" binding:"required,oneof=temperature humidity soil_ph light"`
	Value      float64          `json:"value"`
	Unit       string           `json:"unit" binding:"required"`
	Timestamp  *time.Time       `json:"timestamp"`
}

// CreateReading ingests a single reading directly.
func (h *Handler) CreateReading(c *gin.Context) {
	var req createReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := store.NewReading{
		FarmID:     req.FarmID,
		RobotID:    req.RobotID,
		SensorType: req.SensorType,
		Value:      req.Value,
		Unit:       req.Unit,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}

	reading, err := h.store.CreateReading(c.Request.Context(), in)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, reading)
}
