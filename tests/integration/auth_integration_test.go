package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/controllers"
	"github.com/artisanbakery/bakery-api/middleware"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// AuthIntegrationTestSuite defines the test suite for session auth integration tests
type AuthIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

// SetupSuite runs once before all tests
func (suite *AuthIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	os.Setenv("GO_ENV", "test")
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("PORT", "8080")

	cfg, err := config.Load()
	suite.Require().NoError(err)
	suite.cfg = cfg
	middleware.InitSessionStore(cfg)
}

// SetupTest runs before each test
func (suite *AuthIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	testutil.CreateTestUser(suite.T(), suite.db, "dona@padaria.test", models.RoleAdmin)
	testutil.CreateTestUser(suite.T(), suite.db, "caixa@padaria.test", models.RoleEmployee)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
		v1.GET("/store/settings", controllers.GetStoreSettings)

		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)
		v1.GET("/auth/me", middleware.RequireSession(), controllers.Me)

		admin := v1.Group("/admin", middleware.RequireSession(), middleware.RequireRole(models.RoleEmployee, models.RoleAdmin))
		admin.GET("/dashboard", controllers.GetDashboard)
		admin.GET("/users", middleware.RequireRole(models.RoleAdmin), controllers.ListUsers)
	}
}

func (suite *AuthIntegrationTestSuite) login(email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthIntegrationTestSuite) sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionName {
			return cookie
		}
	}
	suite.T().Fatal("session cookie not set")
	return nil
}

func (suite *AuthIntegrationTestSuite) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	suite.router.ServeHTTP(w, req)
	return w
}

// TestPublicEndpoint tests that storefront endpoints work without a session
func (suite *AuthIntegrationTestSuite) TestPublicEndpoint() {
	w := suite.get("/api/v1/store/settings", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), response["success"].(bool))
}

// TestProtectedEndpointWithoutSession tests that back-office endpoints reject anonymous requests
func (suite *AuthIntegrationTestSuite) TestProtectedEndpointWithoutSession() {
	w := suite.get("/api/v1/admin/dashboard", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), response["success"].(bool))
}

// TestProtectedEndpointWithForgedCookie tests that cookies not signed by the server are rejected
func (suite *AuthIntegrationTestSuite) TestProtectedEndpointWithForgedCookie() {
	testCases := []struct {
		name  string
		value string
	}{
		{"Garbage", "not-a-session"},
		{"Empty", ""},
		{"Truncated", "MTcwMDAwMDAwMHxEdi1CQkFFQ180SUFBUkFCRUFBQUl2LUNBQUVHYzNSeWFXNW5EQWtBQjNWelpYSmZhV1FFZFdsdWRBWUNBQUU9fA"},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			w := suite.get("/api/v1/admin/dashboard", &http.Cookie{Name: middleware.SessionName, Value: tc.value})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

// TestLoginSessionLifecycle signs in, uses the session and signs out
func (suite *AuthIntegrationTestSuite) TestLoginSessionLifecycle() {
	w := suite.login("DONA@padaria.test", testutil.TestPassword)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	cookie := suite.sessionCookie(w)
	assert.True(suite.T(), cookie.HttpOnly)

	w = suite.get("/api/v1/auth/me", cookie)
	suite.Require().Equal(http.StatusOK, w.Code)
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "dona@padaria.test", data["email"])
	assert.Equal(suite.T(), "admin", data["role"])
	assert.NotContains(suite.T(), data, "password_hash")

	w = suite.get("/api/v1/admin/users", cookie)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(cookie)
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Less(suite.T(), suite.sessionCookie(w).MaxAge, 0)
}

// TestLoginFailures tests that wrong credentials never open a session
func (suite *AuthIntegrationTestSuite) TestLoginFailures() {
	testCases := []struct {
		name     string
		email    string
		password string
		status   int
	}{
		{"Wrong password", "dona@padaria.test", "senha-errada", http.StatusUnauthorized},
		{"Unknown email", "ninguem@padaria.test", testutil.TestPassword, http.StatusUnauthorized},
		{"Invalid email", "dona", testutil.TestPassword, http.StatusBadRequest},
		{"Missing password", "dona@padaria.test", "", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			w := suite.login(tc.email, tc.password)
			assert.Equal(t, tc.status, w.Code)
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

// TestEmployeeRoleLimits tests that employees reach the back-office but not owner routes
func (suite *AuthIntegrationTestSuite) TestEmployeeRoleLimits() {
	w := suite.login("caixa@padaria.test", testutil.TestPassword)
	suite.Require().Equal(http.StatusOK, w.Code)
	cookie := suite.sessionCookie(w)

	assert.Equal(suite.T(), http.StatusOK, suite.get("/api/v1/admin/dashboard", cookie).Code)
	assert.Equal(suite.T(), http.StatusForbidden, suite.get("/api/v1/admin/users", cookie).Code)
}

// TestProtectedEndpointResponseFormat tests the error response format
func (suite *AuthIntegrationTestSuite) TestProtectedEndpointResponseFormat() {
	w := suite.get("/api/v1/admin/dashboard", nil)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	assert.Contains(suite.T(), response, "success")
	assert.False(suite.T(), response["success"].(bool))
	assert.Contains(suite.T(), response, "error")

	errorObj := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "UNAUTHORIZED", errorObj["code"])
	assert.Contains(suite.T(), errorObj, "message")
}

// TestAuthIntegrationTestSuite runs the test suite
func TestAuthIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationTestSuite))
}
