package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"farmwatch-backend/config"
	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/mw"
	"farmwatch-backend/internal/store"
)

// NewRouter creates and configures the Gin router.
func NewRouter(s store.Store, cfg *config.Config, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, cfg.Auth, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authed := mw.RequireAuth(cfg.Auth.JWTSecret)
	adminOnly := mw.RequireRole(model.RoleAdmin)
	canOperate := mw.RequireRole(model.RoleAdmin, model.RoleEngineer)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/logout", handler.Logout)
		api.GET("/auth/session", authed, handler.Session)

		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		users := api.Group("/users", authed)
		{
			users.GET("", handler.ListUsers)
			users.GET("/:id", handler.GetUser)
			users.POST("", adminOnly, handler.CreateUser)
			users.PATCH("/:id", adminOnly, handler.UpdateUser)
			users.DELETE("/:id", adminOnly, handler.DeleteUser)
			users.POST("/:id/approve", adminOnly, handler.ApproveEngineer)
			users.POST("/:id/reject", adminOnly, handler.RejectEngineer)
		}

		farms := api.Group("/farms", authed)
		{
			farms.GET("", handler.ListFarms)
			farms.GET("/:id", handler.GetFarm)
			farms.POST("", canOperate, handler.CreateFarm)
			farms.PATCH("/:id", canOperate, handler.UpdateFarm)
			farms.DELETE("/:id", adminOnly, handler.DeleteFarm)
		}

		robots := api.Group("/robots", authed)
		{
			robots.GET("", handler.ListRobots)
			robots.GET("/:id", handler.GetRobot)
			robots.POST("", canOperate, handler.CreateRobot)
			robots.PATCH("/:id", canOperate, handler.UpdateRobot)
			robots.DELETE("/:id", adminOnly, handler.DeleteRobot)
			robots.POST("/assign", canOperate, handler.AssignRobots)
			robots.POST("/:id/telemetry", canOperate, handler.RecordTelemetry)
		}

		readings := api.Group("/sensor-data", authed)
		{
			readings.GET("", handler.ListReadings)
			readings.POST("", canOperate, handler.CreateReading)
		}

		dashboard := api.Group("/dashboard", authed)
		{
			dashboard.GET("/stats", caching, handler.DashboardStats)
			dashboard.GET("/robots-by-farm", caching, handler.RobotDistributionByFarm)
			dashboard.GET("/robot-status", caching, handler.RobotStatusOverview)
			dashboard.GET("/farm-status", caching, handler.FarmStatusDistribution)
		}

		subs := api.Group("/subscriptions", authed)
		{
			subs.GET("", handler.GetSubscription)
			subs.PUT("", handler.PutSubscription)
			subs.DELETE("", handler.DeleteSubscription)
		}
	}

	return r
}
