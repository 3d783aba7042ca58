package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/middleware"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/login/:email", func(c *gin.Context) {
		var user models.User
		if err := config.GetDB().Where("email = ?", c.Param("email")).First(&user).Error; err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		if err := middleware.Login(c, &user); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	staff := router.Group("/", middleware.RequireSession())
	staff.GET("/whoami", func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	staff.GET("/admin-only", middleware.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func loginCookie(t *testing.T, router *gin.Engine, email string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/login/"+email, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func get(router *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRequireSessionWithoutCookie(t *testing.T) {
	testutil.NewTestDB(t)
	w := get(setupSessionRouter(), "/whoami", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireSessionWithTamperedCookie(t *testing.T) {
	testutil.NewTestDB(t)
	w := get(setupSessionRouter(), "/whoami", &http.Cookie{Name: middleware.SessionName, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSessionLoadsUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateTestUser(t, db, "caixa@padaria.test", models.RoleEmployee)
	router := setupSessionRouter()

	cookie := loginCookie(t, router, user.Email)
	assert.True(t, cookie.HttpOnly)

	w := get(router, "/whoami", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":`+itoa(user.ID)+`,"role":"employee"}`, w.Body.String())
}

func TestRequireSessionRejectsDeletedUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateTestUser(t, db, "caixa@padaria.test", models.RoleEmployee)
	router := setupSessionRouter()
	cookie := loginCookie(t, router, user.Email)

	require.NoError(t, db.Unscoped().Delete(&user).Error)

	w := get(router, "/whoami", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := testutil.CreateTestUser(t, db, "caixa@padaria.test", models.RoleEmployee)
	admin := testutil.CreateTestUser(t, db, "dona@padaria.test", models.RoleAdmin)
	router := setupSessionRouter()

	w := get(router, "/admin-only", loginCookie(t, router, employee.Email))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	w = get(router, "/admin-only", loginCookie(t, router, admin.Email))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleUsesCurrentRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	admin := testutil.CreateTestUser(t, db, "dona@padaria.test", models.RoleAdmin)
	router := setupSessionRouter()
	cookie := loginCookie(t, router, admin.Email)

	require.NoError(t, db.Model(&admin).Update("role", models.RoleEmployee).Error)

	w := get(router, "/admin-only", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetUserIDWithoutAuth(t *testing.T) {
	c, _ := testutil.CreateTestContext()
	_, err := middleware.GetUserID(c)
	require.Error(t, err)
	var authErr *middleware.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "MISSING_USER_ID", authErr.Code)

	middleware.SetAuthContext(c, 7, models.RoleAdmin)
	id, err := middleware.GetUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
	role, err := middleware.GetUserRole(c)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}
