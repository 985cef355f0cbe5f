package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmwatch-backend/internal/model"
)

func TestRegisterAndLogin(t *testing.T) {
	router, _ := newTestEnv(t)

	register := map[string]any{
		"firstName": "Nora",
		"lastName":  "Vale",
		"email":     "nora.vale@farmwatch.test",
		"password":  "hunter2hunter2",
		"role":      "farmer",
	}

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeJSON[struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}](t, w)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, model.RoleFarmer, resp.User.Role)
	assert.Equal(t, model.UserActive, resp.User.Status)
	assert.NotEmpty(t, resp.Token)

	t.Run("login with correct password", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    "nora.vale@farmwatch.test",
			"password": "hunter2hunter2",
		})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeJSON[struct {
			Token string `json:"token"`
		}](t, w)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    "nora.vale@farmwatch.test",
			"password": "wrongwrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login with unknown email", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    "nobody@farmwatch.test",
			"password": "hunter2hunter2",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("session with the issued token", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/auth/session", resp.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		session := decodeJSON[struct {
			LoggedIn bool       `json:"loggedIn"`
			User     model.User `json:"user"`
		}](t, w)
		assert.True(t, session.LoggedIn)
		assert.Equal(t, "u1", session.User.ID)
	})

	t.Run("session without a token", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/auth/session", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestEnv(t)

	t.Run("short password", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/register", "", map[string]any{
			"firstName": "Al",
			"lastName":  "Beck",
			"email":     "al.beck@farmwatch.test",
			"password":  "short",
			"role":      "farmer",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/register", "", map[string]any{
			"firstName": "Al",
			"lastName":  "Beck",
			"email":     "al.beck@farmwatch.test",
			"password":  "hunter2hunter2",
			"role":      "superuser",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("registered engineer is pending", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/register", "", map[string]any{
			"firstName": "Cy",
			"lastName":  "Dunn",
			"email":     "cy.dunn@farmwatch.test",
			"password":  "hunter2hunter2",
			"role":      "engineer",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeJSON[struct {
			User model.User `json:"user"`
		}](t, w)
		assert.Equal(t, model.UserPendingApproval, resp.User.Status)
	})
}

func TestLogout(t *testing.T) {
	router, _ := newTestEnv(t)

	w := doJSON(router, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestVAPIDPublicKey(t *testing.T) {
	router, _ := newTestEnv(t)

	w := doJSON(router, http.MethodGet, "/api/vapid_public_key", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"test-vapid-key"}`, w.Body.String())
}
