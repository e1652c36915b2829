package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"mgnrega-api/internal/apperror"
	"mgnrega-api/internal/models"
	"mgnrega-api/internal/service"

	"github.com/gin-gonic/gin"
)

// statusClientClosedRequest is logged when the caller went away before a result was ready.
const statusClientClosedRequest = 499

// LocationResolver interface for dependency injection
type LocationResolver interface {
	Resolve(ctx context.Context, coord models.Coordinate, catalog *models.DistrictCatalog) (*models.LocationResolution, error)
}

// CatalogProvider interface for dependency injection
type CatalogProvider interface {
	Load(ctx context.Context) (*models.DistrictCatalog, error)
}

// DetectRequest is what the browser sends after asking its device for a position.
// Error carries the device failure code instead of a position.
type DetectRequest struct {
	Latitude  *float64 `json:"latitude" example:"28.6139"`
	Longitude *float64 `json:"longitude" example:"77.209"`
	Error     string   `json:"error,omitempty" enums:"unsupported,permission_denied,position_unavailable,timeout"`
}

// DetectResponse is the detected district. District is the catalog spelling when matched,
// otherwise the provider's guess.
type DetectResponse struct {
	District         string            `json:"district"`
	State            string            `json:"state"`
	FormattedAddress string            `json:"formatted_address"`
	Available        bool              `json:"available"`
	Coordinates      models.Coordinate `json:"coordinates"`
	DetectedDistrict string            `json:"detectedDistrict"`
	MatchedDistrict  *string           `json:"matchedDistrict"`
}

func newDetectResponse(r *models.LocationResolution) DetectResponse {
	resp := DetectResponse{
		District:         r.RawDistrictGuess,
		State:            r.RawState,
		FormattedAddress: r.FormattedAddress,
		Available:        r.Available,
		Coordinates:      r.Coordinate,
		DetectedDistrict: r.RawDistrictGuess,
	}
	if r.Matched != nil {
		matched := r.Matched.District
		resp.District = matched
		resp.State = r.Matched.State
		resp.MatchedDistrict = &matched
	}
	return resp
}

// LocationHandler handles location detection requests
type LocationHandler struct {
	resolver LocationResolver
	catalog  CatalogProvider
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(resolver LocationResolver, catalog CatalogProvider) *LocationHandler {
	return &LocationHandler{resolver: resolver, catalog: catalog}
}

// Detect handles POST /api/location/detect requests
//
//	@Summary		Detect the district of a coordinate
//	@Tags			location
//	@Accept			json
//	@Produce		json
//	@Param			request	body		DetectRequest	true	"device position"
//	@Success		200		{object}	DetectResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		504		{object}	ErrorResponse
//	@Router			/location/detect [post]
func (h *LocationHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.New(apperror.KindInvalidInput, "detect", fmt.Errorf("malformed body: %w", err)))
		return
	}

	ctx := c.Request.Context()
	src := service.ReportedPosition{
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		DeviceError: req.Error,
	}
	coord, err := src.Coordinate(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if !coord.Valid() {
		respondError(c, apperror.New(apperror.KindInvalidInput, "detect",
			fmt.Errorf("coordinate out of range: lat=%f lon=%f", coord.Latitude, coord.Longitude)))
		return
	}

	// The catalog is only needed once the position is known to be usable.
	catalog, err := h.catalog.Load(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.Status(statusClientClosedRequest)
			return
		}
		respondError(c, err)
		return
	}

	resolution, err := h.resolver.Resolve(ctx, coord, catalog)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.Status(statusClientClosedRequest)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDetectResponse(resolution))
}
