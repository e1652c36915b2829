package handler

import (
	"context"
	"errors"
	"net/http"

	"mgnrega-api/internal/models"

	"github.com/gin-gonic/gin"
)

// DashboardFetcher interface for dependency injection
type DashboardFetcher interface {
	Fetch(ctx context.Context, district models.CanonicalDistrict) (*models.DashboardSnapshot, error)
}

// DashboardHandler handles dashboard requests
type DashboardHandler struct {
	aggregator DashboardFetcher
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(aggregator DashboardFetcher) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator}
}

// Dashboard handles GET /api/districts/:district/dashboard requests
//
//	@Summary		Summary and monthly series of a district, loaded together
//	@Tags			districts
//	@Produce		json
//	@Param			district	path		string	true	"catalog district name"
//	@Param			state		query		string	false	"catalog state name"
//	@Success		200			{object}	models.DashboardSnapshot
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		502			{object}	ErrorResponse
//	@Router			/districts/{district}/dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	district := models.CanonicalDistrict{
		District: c.Param("district"),
		State:    c.Query("state"),
	}

	snapshot, err := h.aggregator.Fetch(c.Request.Context(), district)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.Status(statusClientClosedRequest)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
