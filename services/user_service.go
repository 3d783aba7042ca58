package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrLastAdmin          = errors.New("the last administrator cannot be removed")
	ErrWeakPassword       = errors.New("password must have at least 8 characters")
)

// MinPasswordLength is the shortest password accepted for back-office accounts
const MinPasswordLength = 8

// PasswordCost is the bcrypt cost used when hashing passwords
var PasswordCost = bcrypt.DefaultCost

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate checks an email and password pair against the stored users
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// UserInput carries the fields of a user create or update. Empty fields are left unchanged
// on update.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// CreateUser registers a back-office account
func CreateUser(db *gorm.DB, in UserInput) (*models.User, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// UpdateUser changes name, email, password or role. Demoting the last administrator is
// rejected with ErrLastAdmin.
func UpdateUser(db *gorm.DB, id uint, in UserInput) (*models.User, error) {
	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		updates := make(map[string]interface{})
		if name := strings.TrimSpace(in.Name); name != "" {
			updates["name"] = name
		}
		if email := normalizeEmail(in.Email); email != "" {
			updates["email"] = email
		}
		if in.Password != "" {
			hash, err := HashPassword(in.Password)
			if err != nil {
				return err
			}
			updates["password_hash"] = hash
		}
		if in.Role != "" {
			role, err := models.ParseRole(in.Role)
			if err != nil {
				return err
			}
			if user.IsAdmin() && role != models.RoleAdmin {
				if err := ensureAnotherAdmin(tx); err != nil {
					return err
				}
			}
			updates["role"] = role
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a back-office account. Deleting the last administrator is rejected
// with ErrLastAdmin.
func DeleteUser(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user.IsAdmin() {
			if err := ensureAnotherAdmin(tx); err != nil {
				return err
			}
		}
		// hard delete so the email can be registered again
		if err := tx.Unscoped().Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// EnsureAdmin creates the bootstrap administrator from the configuration when the database
// has no administrator yet.
func EnsureAdmin(db *gorm.DB, cfg *config.Config) error {
	var admins int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return fmt.Errorf("failed to count administrators: %w", err)
	}
	if admins > 0 {
		return nil
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		zap.L().Warn("no administrator account exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
		return nil
	}

	user, err := CreateUser(db, UserInput{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     string(models.RoleAdmin),
	})
	if err != nil {
		return fmt.Errorf("failed to create bootstrap administrator: %w", err)
	}
	zap.L().Info("initialized administrator account", zap.String("email", user.Email))
	return nil
}

func ensureAnotherAdmin(tx *gorm.DB) error {
	var admins int64
	if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return fmt.Errorf("failed to count administrators: %w", err)
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation works with both PostgreSQL and SQLite error texts
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
