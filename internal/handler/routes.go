package handler

import "github.com/gin-gonic/gin"

// Register mounts the API routes under rg.
func Register(rg *gin.RouterGroup, location *LocationHandler, dashboard *DashboardHandler, catalog *CatalogHandler) {
	rg.POST("/location/detect", location.Detect)

	rg.GET("/states", catalog.States)
	rg.GET("/districts", catalog.AllDistricts)
	rg.GET("/districts/state/:state", catalog.DistrictsByState)
	rg.GET("/districts/:district", catalog.Summary)
	rg.GET("/districts/:district/chart", catalog.Series)
	rg.GET("/districts/:district/dashboard", dashboard.Dashboard)
}
