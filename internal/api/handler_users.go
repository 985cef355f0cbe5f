package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmwatch-backend/internal/model"
	"farmwatch-backend/internal/store"
)

// ListUsers returns all users, optionally narrowed by ?role= or ?status=.
// Unknown filter values match nothing rather than erroring.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		users []model.User
		err   error
	)
	switch {
	case c.Query("role") != "":
		users, err = h.store.ListUsersByRole(ctx, model.Role(c.Query("role")))
	case c.Query("status") != "":
		users, err = h.store.ListUsersByStatus(ctx, model.UserStatus(c.Query("status")))
	default:
		users, err = h.store.ListUsers(ctx)
	}
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns a single user by id.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	FirstName    string           `json:"firstName" binding:"required"`
	LastName     string           `json:"lastName" binding:"required"`
	Email        string           `json:"email" binding:"required,email"`
	Phone        string           `json:"phone"`
	Role         model.Role       `json:"role" binding:"required,oneof=admin engineer farmer"`
	Status       model.UserStatus `json:"status" binding:"omitempty,oneof=active pending_approval rejected"`
	ProfileImage string           `json:"profileImage"`
}

// CreateUser adds a user without credentials (admin-provisioned account).
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), store.NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		Status:       req.Status,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type updateUserRequest struct {
	FirstName    *string           `json:"firstName"`
	LastName     *string           `json:"lastName"`
	Email        *string           `json:"email" binding:"omitempty,email"`
	Phone        *string           `json:"phone"`
	Role         *model.Role       `json:"role" binding:"omitempty,oneof=admin engineer farmer"`
	Status       *model.UserStatus `json:"status" binding:"omitempty,oneof=active pending_approval rejected"`
	ProfileImage *string           `json:"profileImage"`
}

// UpdateUser shallow-merges the provided fields. Status changes cascade
// through robot assignments and farm statuses in the store.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UpdateUser(c.Request.Context(), c.Param("id"), store.UserPatch{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		Status:       req.Status,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user after running their role's cascade and
// returns the pre-deletion snapshot.
func (h *Handler) DeleteUser(c *gin.Context) {
	user, err := h.store.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ApproveEngineer activates a pending engineer.
func (h *Handler) ApproveEngineer(c *gin.Context) {
	user, err := h.store.ApproveEngineer(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// RejectEngineer marks an engineer rejected.
func (h *Handler) RejectEngineer(c *gin.Context) {
	user, err := h.store.RejectEngineer(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
