package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mgnrega-api/internal/apperror"
	"mgnrega-api/internal/models"
	"mgnrega-api/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDashboardFetcher is a mock implementation of the DashboardFetcher interface
type MockDashboardFetcher struct {
	mock.Mock
}

func (m *MockDashboardFetcher) Fetch(ctx context.Context, district models.CanonicalDistrict) (*models.DashboardSnapshot, error) {
	args := m.Called(ctx, district)
	snapshot, _ := args.Get(0).(*models.DashboardSnapshot)
	return snapshot, args.Error(1)
}

func TestDashboardHandler_Dashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pune := models.CanonicalDistrict{District: "Pune", State: "Maharashtra"}
	snapshot := &models.DashboardSnapshot{
		District: pune,
		Summary: models.SummaryStats{
			TotalWorkers: 10, TotalWages: 200, Households: 5, EmploymentDays: 90,
			WorkCompleted: 50, BudgetUtilization: 25, LastUpdated: "2026-09-30",
		},
		Series:    []models.MonthlyPoint{{Month: "Sep 2026", Workers: 10, Wages: 200}},
		FetchedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	summaryErr := apperror.New(apperror.KindSummaryFetchFailed, "dashboard Pune", errors.New("connection refused"))
	seriesErr := apperror.New(apperror.KindSeriesFetchFailed, "dashboard Pune", errors.New("502"))

	tests := []struct {
		name           string
		url            string
		district       models.CanonicalDistrict
		mockSnapshot   *models.DashboardSnapshot
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "snapshot",
			url:            "/api/districts/Pune/dashboard?state=Maharashtra",
			district:       pune,
			mockSnapshot:   snapshot,
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"district": {"district": "Pune", "state": "Maharashtra"},
				"summary": {"totalWorkers": 10, "totalWages": 200, "households": 5, "employmentDays": 90,
					"workCompleted": 50, "budgetUtilization": 25, "lastUpdated": "2026-09-30"},
				"series": [{"month": "Sep 2026", "workers": 10, "wages": 200}],
				"fetchedAt": "2026-10-01T12:00:00Z"
			}`,
		},
		{
			name:           "both legs failed",
			url:            "/api/districts/Pune/dashboard?state=Maharashtra",
			district:       pune,
			mockError:      apperror.New(apperror.KindBothFetchesFailed, "dashboard Pune", errors.Join(summaryErr, seriesErr)),
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "unknown district",
			url:            "/api/districts/Atlantis/dashboard",
			district:       models.CanonicalDistrict{District: "Atlantis"},
			mockError:      apperror.New(apperror.KindSummaryFetchFailed, "dashboard Atlantis", fmt.Errorf("%w: %q", repository.ErrNotFound, "Atlantis")),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:     "shared name without a state",
			url:      "/api/districts/Aurangabad/dashboard",
			district: models.CanonicalDistrict{District: "Aurangabad"},
			mockError: apperror.New(apperror.KindBothFetchesFailed, "dashboard Aurangabad", errors.Join(
				apperror.New(apperror.KindSummaryFetchFailed, "summary", repository.ErrAmbiguous),
				apperror.New(apperror.KindSeriesFetchFailed, "series", repository.ErrAmbiguous),
			)),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid district",
			url:            "/api/districts/%20/dashboard",
			district:       models.CanonicalDistrict{District: " "},
			mockError:      apperror.New(apperror.KindInvalidInput, "dashboard", nil),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			fetcher := new(MockDashboardFetcher)
			fetcher.On("Fetch", mock.Anything, tt.district).Return(tt.mockSnapshot, tt.mockError)
			handler := NewDashboardHandler(fetcher)

			r := gin.New()
			r.GET("/api/districts/:district/dashboard", handler.Dashboard)
			w := httptest.NewRecorder()

			// Execute
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			fetcher.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_ClientGone(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fetcher := new(MockDashboardFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("service: dashboard: %w", context.Canceled))
	handler := NewDashboardHandler(fetcher)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/districts/Pune/dashboard", nil)
	c.Params = gin.Params{{Key: "district", Value: "Pune"}}

	handler.Dashboard(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, statusClientClosedRequest, w.Code)
}
