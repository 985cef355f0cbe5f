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

func TestPutSubscriptionInvalidBody(t *testing.T) {
	router, s := newTestEnv(t)
	token := tokenFor(t, s, model.RoleFarmer)

	w := doJSON(router, http.MethodPut, "/api/subscriptions", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	router, s := newTestEnv(t)
	token := tokenFor(t, s, model.RoleFarmer)

	robot, err := s.CreateRobot(context.Background(), store.NewRobot{Name: "rover-1", BatteryLevel: 50})
	require.NoError(t, err)

	endpoint := "https://push.example.test/sub-1"
	w := doJSON(router, http.MethodPut, "/api/subscriptions", token, map[string]any{
		"endpoint":          endpoint,
		"p256dh":            "key-material",
		"auth":              "auth-secret",
		"subscribed_robots": []string{robot.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("get returns the covered robots", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeJSON[struct {
			SubscribedRobots []string `json:"subscribed_robots"`
		}](t, w)
		assert.Equal(t, []string{robot.ID}, resp.SubscribedRobots)
	})

	t.Run("put replaces the robot set", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/subscriptions", token, map[string]any{
			"endpoint": endpoint,
			"p256dh":   "key-material",
			"auth":     "auth-secret",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(router, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeJSON[struct {
			SubscribedRobots []string `json:"subscribed_robots"`
		}](t, w)
		assert.Empty(t, resp.SubscribedRobots)
	})

	t.Run("delete removes the subscription", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/api/subscriptions", token, map[string]any{
			"endpoint": endpoint,
		})
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(router, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
