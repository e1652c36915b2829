package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mgnrega-api/internal/apperror"
	"mgnrega-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLocationResolver is a mock implementation of the LocationResolver interface
type MockLocationResolver struct {
	mock.Mock
}

func (m *MockLocationResolver) Resolve(ctx context.Context, coord models.Coordinate, catalog *models.DistrictCatalog) (*models.LocationResolution, error) {
	args := m.Called(ctx, coord, catalog)
	res, _ := args.Get(0).(*models.LocationResolution)
	return res, args.Error(1)
}

// MockCatalogProvider is a mock implementation of the CatalogProvider interface
type MockCatalogProvider struct {
	mock.Mock
}

func (m *MockCatalogProvider) Load(ctx context.Context) (*models.DistrictCatalog, error) {
	args := m.Called(ctx)
	catalog, _ := args.Get(0).(*models.DistrictCatalog)
	return catalog, args.Error(1)
}

func TestLocationHandler_Detect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	catalog := models.NewDistrictCatalog([]models.CatalogEntry{
		{District: "New Delhi", State: "Delhi", HasData: true},
	})
	delhi := models.Coordinate{Latitude: 28.6139, Longitude: 77.209}

	tests := []struct {
		name           string
		body           string
		coord          models.Coordinate
		mockResult     *models.LocationResolution
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "matched district",
			body:   `{"latitude": 28.6139, "longitude": 77.209}`,
			coord:  delhi,
			mockResult: &models.LocationResolution{
				Coordinate:       delhi,
				RawDistrictGuess: "New Delhi District",
				RawState:         "Delhi",
				Matched:          &models.CanonicalDistrict{District: "New Delhi", State: "Delhi"},
				Available:        true,
				FormattedAddress: "New Delhi, Delhi, India",
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"district": "New Delhi",
				"state": "Delhi",
				"formatted_address": "New Delhi, Delhi, India",
				"available": true,
				"coordinates": {"latitude": 28.6139, "longitude": 77.209},
				"detectedDistrict": "New Delhi District",
				"matchedDistrict": "New Delhi"
			}`,
		},
		{
			name:   "unmatched district keeps the guess",
			body:   `{"latitude": 28.6139, "longitude": 77.209}`,
			coord:  delhi,
			mockResult: &models.LocationResolution{
				Coordinate:       delhi,
				RawDistrictGuess: "Shahdara",
				RawState:         "Delhi",
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"district": "Shahdara",
				"state": "Delhi",
				"formatted_address": "",
				"available": false,
				"coordinates": {"latitude": 28.6139, "longitude": 77.209},
				"detectedDistrict": "Shahdara",
				"matchedDistrict": null
			}`,
		},
		{
			name:           "geocoding timeout",
			body:           `{"latitude": 28.6139, "longitude": 77.209}`,
			coord:          delhi,
			mockError:      apperror.New(apperror.KindTimeout, "geocode", nil),
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   `{"error": "geocode: timeout", "kind": "timeout"}`,
		},
		{
			name:           "provider failure",
			body:           `{"latitude": 28.6139, "longitude": 77.209}`,
			coord:          delhi,
			mockError:      apperror.WithStatus(apperror.KindProviderError, "geocode", 503, nil),
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error": "geocode: geocoding provider error (status 503)", "kind": "provider_error"}`,
		},
		{
			name:           "no address data",
			body:           `{"latitude": 0, "longitude": 0}`,
			coord:          models.Coordinate{},
			mockError:      apperror.New(apperror.KindNoAddressData, "geocode", nil),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error": "geocode: no address data for coordinate", "kind": "no_address_data"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			resolver := new(MockLocationResolver)
			resolver.On("Resolve", mock.Anything, tt.coord, catalog).Return(tt.mockResult, tt.mockError)
			provider := new(MockCatalogProvider)
			provider.On("Load", mock.Anything).Return(catalog, nil)
			handler := NewLocationHandler(resolver, provider)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/location/detect", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			// Execute
			handler.Detect(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			resolver.AssertExpectations(t)
		})
	}
}

func TestLocationHandler_DetectMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := new(MockLocationResolver)
	provider := new(MockCatalogProvider)
	handler := NewLocationHandler(resolver, provider)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/location/detect", strings.NewReader(`{"latitude": "north"`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Detect(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"invalid_input"`)
	provider.AssertNotCalled(t, "Load", mock.Anything)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestLocationHandler_DetectCatalogUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := new(MockLocationResolver)
	provider := new(MockCatalogProvider)
	provider.On("Load", mock.Anything).Return(nil, errors.New("cache: loading district catalog: connection refused"))
	handler := NewLocationHandler(resolver, provider)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/location/detect", strings.NewReader(`{"latitude": 1, "longitude": 2}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Detect(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "internal server error", "kind": "internal"}`, w.Body.String())
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestLocationHandler_DetectRejectsBeforeLoadingCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedKind   string
	}{
		{
			name:           "permission denied",
			body:           `{"error": "permission_denied"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   "permission_denied",
		},
		{
			name:           "position unavailable",
			body:           `{"error": "position_unavailable"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   "position_unavailable",
		},
		{
			name:           "geolocation unsupported",
			body:           `{"error": "unsupported"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   "device_unavailable",
		},
		{
			name:           "latitude out of range",
			body:           `{"latitude": 200, "longitude": 77.209}`,
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "invalid_input",
		},
		{
			name:           "missing longitude",
			body:           `{"latitude": 28.6139}`,
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "invalid_input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			resolver := new(MockLocationResolver)
			provider := new(MockCatalogProvider)
			provider.On("Load", mock.Anything).Return(nil, errors.New("cache: loading district catalog: connection refused"))
			handler := NewLocationHandler(resolver, provider)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/location/detect", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			// Execute
			handler.Detect(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"kind":"`+tt.expectedKind+`"`)
			provider.AssertNotCalled(t, "Load", mock.Anything)
			resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLocationHandler_DetectClientGoneWhileLoadingCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := new(MockLocationResolver)
	provider := new(MockCatalogProvider)
	provider.On("Load", mock.Anything).Return(nil, fmt.Errorf("cache: loading district catalog: %w", context.Canceled))
	handler := NewLocationHandler(resolver, provider)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/location/detect", strings.NewReader(`{"latitude": 1, "longitude": 2}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Detect(c)

	assert.Equal(t, statusClientClosedRequest, w.Code)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}
