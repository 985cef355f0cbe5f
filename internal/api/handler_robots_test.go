package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/store"
)

func seedFarmWithOwner(t *testing.T, s store.Store, name string) *model.Farm {
	t.Helper()
	ctx := context.Background()
	farmer, err := s.CreateUser(ctx, store.NewUser{
		FirstName: "Owner",
		LastName:  name,
		Email:     name + ".owner@farmwatch.test",
		Role:      model.RoleFarmer,
	})
	require.NoError(t, err)
	farm, err := s.CreateFarm(ctx, store.NewFarm{Name: name, FarmerID: farmer.ID})
	require.NoError(t, err)
	return farm
}

func TestRobotLifecycle(t *testing.T) {
	router, s := newTestEnv(t)
	token := tokenFor(t, s, model.RoleAdmin)
	farm := seedFarmWithOwner(t, s, "Hill-Farm")

	w := doJSON(router, http.MethodPost, "/api/robots", token, map[string]any{
		"name":         "rover-1",
		"farmId":       farm.ID,
		"batteryLevel": 75,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	robot := decodeJSON[model.Robot](t, w)
	assert.Equal(t, "r1", robot.ID)
	require.NotNil(t, robot.FarmName)
	assert.Equal(t, "Hill-Farm", *robot.FarmName)
	assert.Equal(t, model.RobotAvailable, robot.Status)

	t.Run("patch without farmId keeps the assignment", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, "/api/robots/"+robot.ID, token, map[string]any{
			"status": "maintenance",
		})
		require.Equal(t, http.StatusOK, w.Code)
		patched := decodeJSON[model.Robot](t, w)
		assert.Equal(t, model.RobotMaintenance, patched.Status)
		require.NotNil(t, patched.FarmID)
		assert.Equal(t, farm.ID, *patched.FarmID)
	})

	t.Run("patch with null farmId clears the pair", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, "/api/robots/"+robot.ID, token, map[string]any{
			"farmId": nil,
		})
		require.Equal(t, http.StatusOK, w.Code)
		patched := decodeJSON[model.Robot](t, w)
		assert.Nil(t, patched.FarmID)
		assert.Nil(t, patched.FarmName)
	})

	t.Run("patch with unknown farmId is a validation error", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, "/api/robots/"+robot.ID, token, map[string]any{
			"farmId": "f999",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete returns the snapshot", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/api/robots/"+robot.ID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		snapshot := decodeJSON[model.Robot](t, w)
		assert.Equal(t, "rover-1", snapshot.Name)

		w = doJSON(router, http.MethodGet, "/api/robots/"+robot.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAssignRobotsEndpoint(t *testing.T) {
	router, s := newTestEnv(t)
	ctx := context.Background()
	token := tokenFor(t, s, model.RoleAdmin)

	pending, err := s.CreateUser(ctx, store.NewUser{
		FirstName: "Pen",
		LastName:  "Ding",
		Email:     "pen.ding@farmwatch.test",
		Role:      model.RoleEngineer,
	})
	require.NoError(t, err)
	active, err := s.CreateUser(ctx, store.NewUser{
		FirstName: "Act",
		LastName:  "Ive",
		Email:     "act.ive@farmwatch.test",
		Role:      model.RoleEngineer,
		Status:    model.UserActive,
	})
	require.NoError(t, err)
	robot, err := s.CreateRobot(ctx, store.NewRobot{Name: "rover-1", BatteryLevel: 50})
	require.NoError(t, err)

	t.Run("pending engineer is a precondition failure", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/robots/assign", token, map[string]any{
			"robotIds":   []string{robot.ID},
			"engineerId": pending.ID,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("active engineer gets the batch", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/robots/assign", token, map[string]any{
			"robotIds":   []string{robot.ID, "r999"},
			"engineerId": active.ID,
		})
		require.Equal(t, http.StatusOK, w.Code)
		robots := decodeJSON[[]model.Robot](t, w)
		require.Len(t, robots, 1)
		require.NotNil(t, robots[0].EngineerName)
		assert.Equal(t, "Act Ive", *robots[0].EngineerName)
	})

	t.Run("empty batch fails binding", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/robots/assign", token, map[string]any{
			"robotIds":   []string{},
			"engineerId": active.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecordTelemetryEndpoint(t *testing.T) {
	router, s := newTestEnv(t)
	ctx := context.Background()
	token := tokenFor(t, s, model.RoleEngineer)
	farm := seedFarmWithOwner(t, s, "Dale-Farm")

	robot, err := s.CreateRobot(ctx, store.NewRobot{Name: "rover-1", FarmID: &farm.ID, BatteryLevel: 90})
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/robots/"+robot.ID+"/telemetry", token, map[string]any{
		"batteryLevel": 72,
		"readings": []map[string]any{
			{"sensorType": "temperature", "value": 19.5, "unit": "C"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeJSON[model.Robot](t, w)
	assert.Equal(t, model.ConnOnline, updated.Connectivity)
	assert.Equal(t, 72, updated.BatteryLevel)

	t.Run("readings are queryable", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/sensor-data?robotId="+robot.ID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		readings := decodeJSON[[]model.SensorReading](t, w)
		require.Len(t, readings, 1)
		assert.Equal(t, "Dale-Farm", readings[0].FarmName)
		assert.Equal(t, model.SensorTemperature, readings[0].SensorType)
	})

	t.Run("bad sensor type fails binding", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/robots/"+robot.ID+"/telemetry", token, map[string]any{
			"readings": []map[string]any{
				{"sensorType": "wind", "value": 3.0, "unit": "m/s"},
			},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
