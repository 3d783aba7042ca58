package controllers

import (
	"errors"
	"net/http"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/middleware"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login - checks credentials and opens a session
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	user, err := services.Authenticate(config.GetDB(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			zap.L().Info("failed login", zap.String("email", req.Email), zap.String("ip", c.ClientIP()))
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		respondServiceError(c, err, "Failed to sign in")
		return
	}

	if err := middleware.Login(c, user); err != nil {
		zap.L().Error("failed to save session", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to start session")
		return
	}

	zap.L().Info("user signed in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	respondSuccess(c, http.StatusOK, user)
}

// Logout handles POST /api/v1/auth/logout - clears the session cookie
func Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		zap.L().Error("failed to clear session", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out",
	})
}

// Me handles GET /api/v1/auth/me - the signed-in user
func Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var user models.User
	if err := config.GetDB().First(&user, userID).Error; err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	respondSuccess(c, http.StatusOK, user)
}
