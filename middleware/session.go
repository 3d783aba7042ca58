package middleware

import (
	"net/http"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	// SessionName is the cookie holding the staff session
	SessionName = "bakery_session"

	sessionUserKey = "user_id"
	sessionRoleKey = "role"

	contextUserKey = "user_id"
	contextRoleKey = "user_role"

	sessionMaxAge = 12 * 60 * 60
)

var store *sessions.CookieStore

// InitSessionStore configures the cookie store used for staff sessions
func InitSessionStore(cfg *config.Config) *sessions.CookieStore {
	store = sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func getStore() *sessions.CookieStore {
	if store == nil {
		cfg := config.GetConfig()
		if cfg == nil {
			cfg = &config.Config{SessionSecret: "development-session-secret-change-me"}
		}
		InitSessionStore(cfg)
	}
	return store
}

// Login writes a session for the user on the response
func Login(c *gin.Context, user *models.User) error {
	session, _ := getStore().Get(c.Request, SessionName)
	session.Values[sessionUserKey] = user.ID
	session.Values[sessionRoleKey] = string(user.Role)
	return session.Save(c.Request, c.Writer)
}

// Logout expires the session cookie
func Logout(c *gin.Context) error {
	session, _ := getStore().Get(c.Request, SessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

// RequireSession rejects requests without a valid staff session. The user is reloaded from
// the database so deleted accounts and role changes take effect immediately.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := getStore().Get(c.Request, SessionName)
		if err != nil {
			zap.L().Debug("invalid session cookie", zap.Error(err))
		}

		userID, ok := session.Values[sessionUserKey].(uint)
		if !ok || userID == 0 {
			abortUnauthorized(c, "Authentication required")
			return
		}

		var user models.User
		if err := config.GetDB().First(&user, userID).Error; err != nil {
			abortUnauthorized(c, "Session is no longer valid")
			return
		}

		c.Set(contextUserKey, user.ID)
		c.Set(contextRoleKey, user.Role)
		c.Next()
	}
}

// RequireRole allows the request only for users holding one of the given roles. It must run
// after RequireSession.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRole(c)
		if err != nil {
			abortUnauthorized(c, "Authentication required")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
		c.Abort()
	}
}

// GetUserID extracts the authenticated user ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(contextUserKey)
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not valid"}
	}
	return id, nil
}

// GetUserRole extracts the authenticated user role from the Gin context
func GetUserRole(c *gin.Context) (models.Role, error) {
	role, exists := c.Get(contextRoleKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}

	r, ok := role.(models.Role)
	if !ok {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role is not valid"}
	}
	return r, nil
}

// SetAuthContext stores an authenticated identity on the context. Tests use it in place of
// a real session.
func SetAuthContext(c *gin.Context, userID uint, role models.Role) {
	c.Set(contextUserKey, userID)
	c.Set(contextRoleKey, role)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
	c.Abort()
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
