package handler

import (
	"context"
	"net/http"

	"mgnrega-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CatalogService interface for dependency injection
type CatalogService interface {
	States(ctx context.Context) ([]string, error)
	DistrictsByState(ctx context.Context, state string) ([]string, error)
	AllDistricts(ctx context.Context) ([]string, error)
	Summary(ctx context.Context, district, state string) (models.SummaryStats, error)
	Series(ctx context.Context, district, state string) ([]models.MonthlyPoint, error)
}

// CatalogHandler serves the district listings and the per-feed endpoints
type CatalogHandler struct {
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// States handles GET /api/states requests
//
//	@Summary	States with districts
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{array}		string
//	@Failure	500	{object}	ErrorResponse
//	@Router		/states [get]
func (h *CatalogHandler) States(c *gin.Context) {
	states, err := h.service.States(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(states))
}

// AllDistricts handles GET /api/districts requests
//
//	@Summary	Districts with data
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{array}		string
//	@Failure	500	{object}	ErrorResponse
//	@Router		/districts [get]
func (h *CatalogHandler) AllDistricts(c *gin.Context) {
	districts, err := h.service.AllDistricts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(districts))
}

// DistrictsByState handles GET /api/districts/state/:state requests
//
//	@Summary	Districts with data in a state
//	@Tags		catalog
//	@Produce	json
//	@Param		state	path		string	true	"state name"
//	@Success	200		{array}		string
//	@Failure	500		{object}	ErrorResponse
//	@Router		/districts/state/{state} [get]
func (h *CatalogHandler) DistrictsByState(c *gin.Context) {
	districts, err := h.service.DistrictsByState(c.Request.Context(), c.Param("state"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(districts))
}

// Summary handles GET /api/districts/:district requests
//
//	@Summary	Summary statistics of a district
//	@Tags		districts
//	@Produce	json
//	@Param		district	path		string	true	"district name"
//	@Param		state		query		string	false	"state name, required when the district name is shared"
//	@Success	200			{object}	models.SummaryStats
//	@Failure	404			{object}	ErrorResponse
//	@Failure	409			{object}	ErrorResponse
//	@Router		/districts/{district} [get]
func (h *CatalogHandler) Summary(c *gin.Context) {
	stats, err := h.service.Summary(c.Request.Context(), c.Param("district"), c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Series handles GET /api/districts/:district/chart requests
//
//	@Summary	Monthly series of a district
//	@Tags		districts
//	@Produce	json
//	@Param		district	path		string	true	"district name"
//	@Param		state		query		string	false	"state name, required when the district name is shared"
//	@Success	200			{array}		models.MonthlyPoint
//	@Failure	409			{object}	ErrorResponse
//	@Router		/districts/{district}/chart [get]
func (h *CatalogHandler) Series(c *gin.Context) {
	series, err := h.service.Series(c.Request.Context(), c.Param("district"), c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(series))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
