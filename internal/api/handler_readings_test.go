package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/store"
)

func TestListReadingsWindow(t *testing.T) {
	router, s := newTestEnv(t)
	ctx := context.Background()
	token := tokenFor(t, s, model.RoleAdmin)
	farm := seedFarmWithOwner(t, s, "Mill-Farm")

	robot, err := s.CreateRobot(ctx, store.NewRobot{Name: "rover-1", FarmID: &farm.ID, BatteryLevel: 60})
	require.NoError(t, err)

	base := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.CreateReading(ctx, store.NewReading{
			FarmID:     farm.ID,
			RobotID:    robot.ID,
			SensorType: model.SensorHumidity,
			Value:      40 + float64(i),
			Unit:       "%",
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	t.Run("window bounds are inclusive", func(t *testing.T) {
		path := "/api/sensor-data?start=2026-04-10T08:00:00Z&end=2026-04-10T09:00:00Z"
		w := doJSON(router, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		readings := decodeJSON[[]model.SensorReading](t, w)
		assert.Len(t, readings, 2)
	})

	t.Run("malformed start yields an empty list", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/sensor-data?start=not-a-date", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("inverted window yields an empty list", func(t *testing.T) {
		path := "/api/sensor-data?start=2026-04-10T10:00:00Z&end=2026-04-10T08:00:00Z"
		w := doJSON(router, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("type filter", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/sensor-data?type=soil_ph", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = doJSON(router, http.MethodGet, "/api/sensor-data?type=humidity", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		readings := decodeJSON[[]model.SensorReading](t, w)
		assert.Len(t, readings, 3)
	})
}

func TestCreateReadingEndpoint(t *testing.T) {
	router, s := newTestEnv(t)
	ctx := context.Background()
	token := tokenFor(t, s, model.RoleEngineer)
	farm := seedFarmWithOwner(t, s, "Fen-Farm")

	robot, err := s.CreateRobot(ctx, store.NewRobot{Name: "rover-1", FarmID: &farm.ID, BatteryLevel: 60})
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/sensor-data", token, map[string]any{
		"farmId":     farm.ID,
		"robotId":    robot.ID,
		"sensorType": "soil_ph",
		"value":      6.8,
		"unit":       "pH",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	reading := decodeJSON[model.SensorReading](t, w)
	assert.Equal(t, "s1", reading.ID)
	assert.Equal(t, "Fen-Farm", reading.FarmName)
	assert.Equal(t, "rover-1", reading.RobotName)
	assert.False(t, reading.Timestamp.IsZero())

	t.Run("unknown robot", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/sensor-data", token, map[string]any{
			"farmId":     farm.ID,
			"robotId":    "r999",
			"sensorType": "light",
			"value":      100,
			"unit":       "lx",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
