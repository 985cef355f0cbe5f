package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/store"
)

// optRef distinguishes an absent JSON field from an explicit null for
// clearable references: absent leaves the reference alone, null clears
// it, a string points it at a new referent.
type optRef struct {
	set bool
	id  *string
}

func (o *optRef) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &o.id)
}

func (o *optRef) change() *store.RefChange {
	if !o.set {
		return nil
	}
	return &store.RefChange{ID: o.id}
}

// ListRobots returns all robots.
func (h *Handler) ListRobots(c *gin.Context) {
	robots, err := h.store.ListRobots(c.Request.Context())
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, robots)
}

// GetRobot returns a single robot by id.
func (h *Handler) GetRobot(c *gin.Context) {
	robot, err := h.store.GetRobot(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, robot)
}

type createRobotRequest struct {
	Name         string             `json:"name" binding:"required"`
	FarmID       *string            `json:"farmId"`
	EngineerID   *string            `json:"engineerId"`
	Status       model.RobotStatus  `json:"status" binding:"omitempty,oneof=available in-use maintenance"`
	Connectivity model.Connectivity `json:"connectivity" binding:"omitempty,oneof=online offline"`
	BatteryLevel int                `json:"batteryLevel" binding:"min=0,max=100"`
}

// CreateRobot adds a robot, resolving any farm/engineer references.
func (h *Handler) CreateRobot(c *gin.Context) {
	var req createRobotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	robot, err := h.store.CreateRobot(c.Request.Context(), store.NewRobot{
		Name:         req.Name,
		FarmID:       req.FarmID,
		EngineerID:   req.EngineerID,
		Status:       req.Status,
		Connectivity: req.Connectivity,
		BatteryLevel: req.BatteryLevel,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, robot)
}

type updateRobotRequest struct {
	Name         *string             `json:"name"`
	FarmID       optRef              `json:"farmId"`
	EngineerID   optRef              `json:"engineerId"`
	Status       *model.RobotStatus  `json:"status" binding:"omitempty,oneof=available in-use maintenance"`
	Connectivity *model.Connectivity `json:"connectivity" binding:"omitempty,oneof=online offline"`
	BatteryLevel *int                `json:"batteryLevel" binding:"omitempty,min=0,max=100"`
}

// UpdateRobot shallow-merges the provided fields. farmId and engineerId
// accept null to clear the assignment.
func (h *Handler) UpdateRobot(c *gin.Context) {
	var req updateRobotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	robot, err := h.store.UpdateRobot(c.Request.Context(), c.Param("id"), store.RobotPatch{
		Name:         req.Name,
		Farm:         req.FarmID.change(),
		Engineer:     req.EngineerID.change(),
		Status:       req.Status,
		Connectivity: req.Connectivity,
		BatteryLevel: req.BatteryLevel,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, robot)
}

// DeleteRobot removes the robot and returns its pre-deletion snapshot.
func (h *Handler) DeleteRobot(c *gin.Context) {
	robot, err := h.store.DeleteRobot(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, robot)
}

type assignRobotsRequest struct {
	RobotIDs   []string `json:"robotIds" binding:"required,min=1"`
	EngineerID string   `json:"engineerId" binding:"required"`
}

// AssignRobots assigns a batch of robots to one active engineer. The
// whole batch fails if the engineer is missing or not active; unknown
// robot ids are skipped.
func (h *Handler) AssignRobots(c *gin.Context) {
	var req assignRobotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	robots, err := h.store.AssignRobotsToEngineer(c.Request.Context(), req.RobotIDs, req.EngineerID)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, robots)
}

type telemetryReading struct {
	SensorType model.SensorType `json:"sensorType" binding:"required,oneof=temperature humidity soil_ph light"`
	Value      float64          `json:"value"`
	Unit       string           `json:"unit" binding:"required"`
	Timestamp  *time.Time       `json:"timestamp"`
}

type telemetryRequest struct {
	BatteryLevel *int               `json:"batteryLevel" binding:"omitempty,min=0,max=100"`
	Readings     []telemetryReading `json:"readings" binding:"omitempty,dive"`
}

// RecordTelemetry ingests one robot report: battery level plus captured
// sensor readings. The robot is marked online and LastActive bumped.
func (h *Handler) RecordTelemetry(c *gin.Context) {
	var req telemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := store.Telemetry{BatteryLevel: req.BatteryLevel}
	for _, r := range req.Readings {
		tr := store.TelemetryReading{
			SensorType: r.SensorType,
			Value:      r.Value,
			Unit:       r.Unit,
		}
		if r.Timestamp != nil {
			tr.Timestamp = *r.Timestamp
		}
		in.Readings = append(in.Readings, tr)
	}

	robot, err := h.store.RecordTelemetry(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, robot)
}
