package controllers

import (
	"net/http"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/middleware"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateUserRequest represents the request body for creating a back-office account
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserRequest represents the request body for updating an account. Empty fields are
// left unchanged.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"omitempty"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty"`
	Role     string `json:"role" binding:"omitempty"`
}

// ListUsers handles GET /api/v1/admin/users
func ListUsers(c *gin.Context) {
	users := []models.User{}
	if err := config.GetDB().Order("name ASC").Find(&users).Error; err != nil {
		respondServiceError(c, err, "Failed to fetch users")
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

// CreateUser handles POST /api/v1/admin/users
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	user, err := services.CreateUser(config.GetDB(), services.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create user")
		return
	}

	zap.L().Info("user created", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	respondSuccess(c, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/v1/admin/users/:id
func UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	user, err := services.UpdateUser(config.GetDB(), id, services.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update user")
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id. Admins cannot delete themselves.
func DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	currentID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	if currentID == id {
		respondError(c, http.StatusConflict, "SELF_DELETE", "You cannot delete your own account")
		return
	}

	if err := services.DeleteUser(config.GetDB(), id); err != nil {
		respondServiceError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}
