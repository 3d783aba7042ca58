package controllers

import (
	"net/http"
	"testing"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSettingsRouter() *gin.Engine {
	router := setupTestRouter()
	admin := router.Group("/", mockAuthMiddleware(1, models.RoleAdmin))
	admin.GET("/settings", GetSettings)
	admin.PUT("/settings", UpdateSettings)
	router.GET("/store/settings", GetStoreSettings)
	return router
}

func TestGetSettingsCreatesDefaults(t *testing.T) {
	testutil.NewTestDB(t)
	router := setupSettingsRouter()

	w := performRequest(router, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["store_name"])
	_, hasID := data["id"]
	assert.False(t, hasID)
}

func TestUpdateSettingsHandler(t *testing.T) {
	testutil.NewTestDB(t)
	router := setupSettingsRouter()

	performRequest(router, http.MethodGet, "/store/settings", nil)

	w := performRequest(router, http.MethodPut, "/settings", map[string]interface{}{
		"store_name":              "  Fornada da Vila ",
		"whatsapp_number":         "5511999990000",
		"payment_methods":         []string{"PIX", "", "cash"},
		"delivery_fee":            "7.5",
		"free_delivery_threshold": "100",
		"is_open":                 true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Fornada da Vila", data["store_name"])
	assert.Equal(t, "pix,cash", data["payment_methods"])
	assertMoney(t, "7.5", data["delivery_fee"])

	w = performRequest(router, http.MethodGet, "/store/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	public := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Fornada da Vila", public["store_name"], "storefront sees the new settings")
}

func TestUpdateSettingsValidation(t *testing.T) {
	testutil.NewTestDB(t)
	router := setupSettingsRouter()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing store name", map[string]interface{}{"is_open": true}},
		{"unknown payment method", map[string]interface{}{"store_name": "Fornada", "payment_methods": []string{"cheque"}}},
		{"negative delivery fee", map[string]interface{}{"store_name": "Fornada", "delivery_fee": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPut, "/settings", tt.body)
			assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
		})
	}
}
