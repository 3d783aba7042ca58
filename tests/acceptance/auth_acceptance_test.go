package acceptance

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/controllers"
	"github.com/artisanbakery/bakery-api/middleware"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/artisanbakery/bakery-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// AuthAcceptanceTestSuite runs the account lifecycle against a live server
type AuthAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	cfg    *config.Config
}

// SetupSuite runs once before all tests
func (suite *AuthAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("ADMIN_EMAIL", "dona@padaria.test")
	os.Setenv("ADMIN_PASSWORD", testutil.TestPassword)
	suite.T().Cleanup(func() {
		os.Unsetenv("ADMIN_EMAIL")
		os.Unsetenv("ADMIN_PASSWORD")
	})

	services.PasswordCost = bcrypt.MinCost

	cfg, err := config.Load()
	suite.Require().NoError(err)
	suite.cfg = cfg
	middleware.InitSessionStore(cfg)
}

// SetupTest gives every test a fresh database seeded the way the server boots
func (suite *AuthAcceptanceTestSuite) SetupTest() {
	db := testutil.NewTestDB(suite.T())
	suite.Require().NoError(services.EnsureAdmin(db, suite.cfg))

	suite.server = httptest.NewServer(suite.createRouter())
	suite.T().Cleanup(suite.server.Close)
}

func (suite *AuthAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Bakery API is running"})
		})
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)
		v1.GET("/auth/me", middleware.RequireSession(), controllers.Me)

		admin := v1.Group("/admin", middleware.RequireSession(), middleware.RequireRole(models.RoleEmployee, models.RoleAdmin))
		admin.GET("/dashboard", controllers.GetDashboard)

		owner := admin.Group("", middleware.RequireRole(models.RoleAdmin))
		owner.GET("/users", controllers.ListUsers)
		owner.POST("/users", controllers.CreateUser)
		owner.PUT("/users/:id", controllers.UpdateUser)
		owner.DELETE("/users/:id", controllers.DeleteUser)
	}
	return router
}

// TestHealthEndpoint checks the server answers with the request id header
func (suite *AuthAcceptanceTestSuite) TestHealthEndpoint() {
	client := newClient(suite.T(), suite.server)
	status, body := client.do(http.MethodGet, "/health", nil)

	assert.Equal(suite.T(), http.StatusOK, status)
	assert.Equal(suite.T(), true, body["success"])
	assert.NotEmpty(suite.T(), client.lastHeader.Get(middleware.RequestIDHeader))
}

// TestBootstrapAdminManagesStaff signs in as the bootstrap admin, hires an employee, checks the
// employee's limits and finally removes the account
func (suite *AuthAcceptanceTestSuite) TestBootstrapAdminManagesStaff() {
	owner := newClient(suite.T(), suite.server)
	status, _ := owner.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "dona@padaria.test", "password": testutil.TestPassword,
	})
	suite.Require().Equal(http.StatusOK, status)

	status, created := owner.do(http.MethodPost, "/admin/users", map[string]string{
		"name": "Caixa", "email": "caixa@padaria.test", "password": "pao-na-chapa", "role": "employee",
	})
	suite.Require().Equal(http.StatusCreated, status, created)
	employeeID := uint(data(created)["id"].(float64))

	employee := newClient(suite.T(), suite.server)
	status, _ = employee.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "caixa@padaria.test", "password": "pao-na-chapa",
	})
	suite.Require().Equal(http.StatusOK, status)

	status, me := employee.do(http.MethodGet, "/auth/me", nil)
	suite.Require().Equal(http.StatusOK, status)
	assert.Equal(suite.T(), "employee", data(me)["role"])

	status, _ = employee.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(suite.T(), http.StatusOK, status)
	status, _ = employee.do(http.MethodGet, "/admin/users", nil)
	assert.Equal(suite.T(), http.StatusForbidden, status)

	status, _ = owner.do(http.MethodDelete, "/admin/users/"+itoa(employeeID), nil)
	suite.Require().Equal(http.StatusOK, status)

	status, _ = employee.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, status, "a deleted account loses its session")
}

// TestPromotedEmployeeGainsAccess checks that role changes apply to live sessions
func (suite *AuthAcceptanceTestSuite) TestPromotedEmployeeGainsAccess() {
	owner := newClient(suite.T(), suite.server)
	status, _ := owner.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "dona@padaria.test", "password": testutil.TestPassword,
	})
	suite.Require().Equal(http.StatusOK, status)

	status, created := owner.do(http.MethodPost, "/admin/users", map[string]string{
		"name": "Gerente", "email": "gerente@padaria.test", "password": "fermento-natural", "role": "employee",
	})
	suite.Require().Equal(http.StatusCreated, status)
	managerID := uint(data(created)["id"].(float64))

	manager := newClient(suite.T(), suite.server)
	status, _ = manager.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "gerente@padaria.test", "password": "fermento-natural",
	})
	suite.Require().Equal(http.StatusOK, status)
	status, _ = manager.do(http.MethodGet, "/admin/users", nil)
	suite.Require().Equal(http.StatusForbidden, status)

	status, _ = owner.do(http.MethodPut, "/admin/users/"+itoa(managerID), map[string]string{"role": "admin"})
	suite.Require().Equal(http.StatusOK, status)

	status, users := manager.do(http.MethodGet, "/admin/users", nil)
	assert.Equal(suite.T(), http.StatusOK, status)
	assert.Len(suite.T(), users["data"], 2)
}

// TestErrorResponseFormat checks the failure envelope on auth errors
func (suite *AuthAcceptanceTestSuite) TestErrorResponseFormat() {
	client := newClient(suite.T(), suite.server)

	status, body := client.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "dona@padaria.test", "password": "senha-errada",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, status)
	assert.Equal(suite.T(), false, body["success"])
	errorObj := body["error"].(map[string]interface{})
	assert.Equal(suite.T(), "INVALID_CREDENTIALS", errorObj["code"])
	assert.NotEmpty(suite.T(), errorObj["message"])

	status, body = client.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, status)
	assert.Equal(suite.T(), "UNAUTHORIZED", body["error"].(map[string]interface{})["code"])
}

func TestAuthAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthAcceptanceTestSuite))
}
