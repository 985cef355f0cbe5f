package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmwatch-backend/internal/auth"
	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/mw"
	"farmwatch-backend/internal/store"
)

type registerRequest struct {
	FirstName string     `json:"firstName" binding:"required"`
	LastName  string     `json:"lastName" binding:"required"`
	Email     string     `json:"email" binding:"required,email"`
	Phone     string     `json:"phone"`
	Password  string     `json:"password" binding:"required,min=8"`
	Role      model.Role `json:"role" binding:"required,oneof=admin engineer farmer"`
}

// Register creates an account. Engineers land in the approval queue;
// admins and farmers are active immediately.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password, h.auth.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user, err := h.store.RegisterUser(c.Request.Context(), store.NewUser{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
	}, hash)
	if err != nil {
		abortStoreErr(c, err)
		return
	}

	token, err := auth.GenerateToken(user, h.auth.JWTSecret, h.auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user created but failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		abortStoreErr(c, err)
		return
	}

	cred, err := h.store.GetCredential(ctx, user.ID)
	if err != nil || !auth.CheckPassword(req.Password, cred.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user, h.auth.JWTSecret, h.auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Session returns the authenticated user for the presented token.
func (h *Handler) Session(c *gin.Context) {
	claims := mw.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"loggedIn": false})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"loggedIn": false})
			return
		}
		abortStoreErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loggedIn": true, "user": user})
}

// Logout is a stateless acknowledgment; tokens simply expire.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
