package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"farmwatch-backend/config"
	"farmwatch-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	auth    config.AuthConfig
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, authCfg config.AuthConfig, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		auth:    authCfg,
		webpush: webpushOptions,
	}
}

// abortStoreErr maps a store error onto its HTTP status. Unrecognized
// errors are reported as internal without leaking detail.
func abortStoreErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrPrecondition):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
