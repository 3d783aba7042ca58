package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware authenticates every request as the given staff member
func mockAuthMiddleware(userID uint, role models.Role) gin.HandlerFunc {
	return testutil.MockAuth(userID, role)
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	return response
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code, "body: %s", w.Body.String())
	response := decodeResponse(t, w)
	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, code, errorData["code"])
}

func assertMoney(t *testing.T, expected string, value interface{}) {
	t.Helper()
	text, ok := value.(string)
	require.True(t, ok, "money is encoded as a string, got %T", value)
	assert.True(t, decimal.RequireFromString(expected).Equal(decimal.RequireFromString(text)),
		"expected %s, got %s", expected, text)
}

func seedProduct(t *testing.T, db *gorm.DB, name, category, price string, active bool) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Active:   active,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
