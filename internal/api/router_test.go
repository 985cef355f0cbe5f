package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"farmwatch-backend/config"
	"farmwatch-backend/internal/auth"
	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/store"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = 8081
	// High limits so tests never trip the limiter.
	cfg.Server.RateLimitPerSec = 10000
	cfg.Server.RateLimitBurst = 10000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return cfg
}

// newTestEnv builds a router over a fresh in-memory database and returns
// it together with the backing store.
func newTestEnv(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&model.User{},
		&model.UserCredential{},
		&model.Farm{},
		&model.Robot{},
		&model.SensorReading{},
		&model.AlertSubscription{},
	)
	require.NoError(t, err)

	s := store.NewGormStore(db)
	router := NewRouter(s, testConfig(), &webpush.Options{VAPIDPublicKey: "test-vapid-key"})
	return router, s
}

// tokenFor creates a user with the given role and returns a session
// token for it.
func tokenFor(t *testing.T, s store.Store, role model.Role) string {
	t.Helper()
	user, err := s.CreateUser(context.Background(), store.NewUser{
		FirstName: "Test",
		LastName:  string(role),
		Email:     fmt.Sprintf("test.%s.%d@farmwatch.test", role, time.Now().UnixNano()),
		Role:      role,
		Status:    model.UserActive,
	})
	require.NoError(t, err)

	token, err := auth.GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
