package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"justiplay-backend/internal/shared/server/middleware"
	"justiplay-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PUT("/me/role", h.setRole)
}

func requireLogin(c *gin.Context) bool {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return false
		}
	}
	return true
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	if !requireLogin(c) {
		return
	}
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if errors.Is(err, ErrNotFound) {
		// A valid token can outlive the row, e.g. after the in-memory
		// repo restarts. Recreate the profile from the token claims.
		fresh := User{
			ID:         userID,
			Email:      middleware.UserEmailFromContext(c),
			FullName:   middleware.UserNameFromContext(c),
			PictureURL: middleware.UserPictureFromContext(c),
			Role:       RoleCitizen,
		}
		if err = h.Svc.UpsertFromAuth(c.Request.Context(), fresh); err == nil {
			user, err = h.Svc.GetByID(c.Request.Context(), userID)
		}
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"fullName":   user.FullName,
		"pictureUrl": user.PictureURL,
		"role":       user.Role,
		"progress":   StatsForXP(user.XP),
	})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) setRole(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	if !requireLogin(c) {
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.SetRole(c.Request.Context(), userID, req.Role); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
