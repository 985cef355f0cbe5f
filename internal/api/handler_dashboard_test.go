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

func TestDashboardEndpoints(t *testing.T) {
	router, s := newTestEnv(t)
	ctx := context.Background()
	token := tokenFor(t, s, model.RoleFarmer)

	first := seedFarmWithOwner(t, s, "One-Farm")
	second := seedFarmWithOwner(t, s, "Two-Farm")
	inactive := model.FarmInactive
	_, err := s.UpdateFarm(ctx, second.ID, store.FarmPatch{Status: &inactive})
	require.NoError(t, err)

	_, err = s.CreateRobot(ctx, store.NewRobot{Name: "rover-1", FarmID: &first.ID, BatteryLevel: 50})
	require.NoError(t, err)
	_, err = s.CreateRobot(ctx, store.NewRobot{Name: "rover-2", Status: model.RobotInUse, BatteryLevel: 50})
	require.NoError(t, err)

	t.Run("stats", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/dashboard/stats", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		stats := decodeJSON[model.DashboardStats](t, w)
		assert.Equal(t, int64(2), stats.TotalFarms)
		assert.Equal(t, int64(1), stats.ActiveFarms)
		assert.Equal(t, int64(2), stats.TotalRobots)
		// tokenFor added a farmer alongside the two farm owners.
		assert.Equal(t, int64(3), stats.TotalFarmers)
		assert.Equal(t, int64(1), stats.RobotStatusDistribution.Available)
		assert.Equal(t, int64(1), stats.RobotStatusDistribution.InUse)
	})

	t.Run("robots by farm", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/dashboard/robots-by-farm", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		dist := decodeJSON[[]model.NamedCount](t, w)
		require.Len(t, dist, 2)
		assert.Equal(t, model.NamedCount{Name: "One-Farm", Value: 1}, dist[0])
		assert.Equal(t, model.NamedCount{Name: "Two-Farm", Value: 0}, dist[1])
	})

	t.Run("robot status", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/dashboard/robot-status", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		dist := decodeJSON[[]model.NamedCount](t, w)
		require.Len(t, dist, 3)
		assert.Equal(t, "Available", dist[0].Name)
		assert.Equal(t, "In Use", dist[1].Name)
		assert.Equal(t, "Maintenance", dist[2].Name)
	})

	t.Run("farm status", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/dashboard/farm-status", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		dist := decodeJSON[[]model.NamedCount](t, w)
		assert.Equal(t, []model.NamedCount{
			{Name: "Active", Value: 1},
			{Name: "Inactive", Value: 1},
		}, dist)
	})
}

func TestDashboardRequiresAuth(t *testing.T) {
	router, _ := newTestEnv(t)

	w := doJSON(router, http.MethodGet, "/api/dashboard/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
