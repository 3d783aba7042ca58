package testutil

import (
	"testing"

	"github.com/artisanbakery/bakery-api/middleware"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password given to users created by CreateTestUser
const TestPassword = "fornada-quentinha"

// MockAuth returns a middleware that authenticates every request as the given user
func MockAuth(userID uint, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetAuthContext(c, userID, role)
		c.Next()
	}
}

// CreateTestUser inserts a user whose password is TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()

	services.PasswordCost = bcrypt.MinCost
	hash, err := services.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Name:         "Test " + string(role),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
