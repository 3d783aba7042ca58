package controllers

import (
	"net/http"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetDashboard handles GET /api/v1/admin/dashboard - the back-office summary
func GetDashboard(c *gin.Context) {
	cache := services.GetSnapshotCache()
	if cached, ok := cache.Get(services.PathDashboard); ok {
		respondSuccess(c, http.StatusOK, cached)
		return
	}

	summary, err := services.BuildDashboard(config.GetDB(), clock())
	if err != nil {
		zap.L().Error("failed to build dashboard", zap.Error(err))
		respondSuccess(c, http.StatusOK, services.EmptyDashboard())
		return
	}

	cache.Set(services.PathDashboard, summary)
	respondSuccess(c, http.StatusOK, summary)
}
