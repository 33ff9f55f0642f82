package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

func dashboardRouter(svc DashboardService) *gin.Engine {
	h := NewDashboardHandler(svc)
	r := gin.New()
	group := r.Group("/dashboard", withSpecialist())
	{
		group.GET("/stats", h.GetStats)
		group.GET("/recent-activity", h.GetRecentActivity)
		group.GET("/trends", h.GetTrends)
	}
	return r
}

func TestDashboardHandler_GetStats(t *testing.T) {
	svc := new(mockDashboardService)
	svc.On("GetStats", mock.Anything, testSpecialist.ID).Return(&usecase.DashboardStats{
		TotalAnalyses:  42,
		AnemiaDetected: 17,
		NormalResults:  25,
	}, nil)

	w := httptest.NewRecorder()
	dashboardRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["total_analyses"])
	assert.Equal(t, float64(17), data["anemia_detected"])
}

func TestDashboardHandler_GetRecentActivity(t *testing.T) {
	svc := new(mockDashboardService)
	svc.On("GetRecentActivity", mock.Anything, testSpecialist.ID, int64(3)).
		Return([]usecase.ActivityItem{{CaseNumber: "20250115-QX4R"}}, nil)

	w := httptest.NewRecorder()
	dashboardRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/recent-activity?limit=3", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_GetTrends(t *testing.T) {
	svc := new(mockDashboardService)
	svc.On("GetTrends", mock.Anything, testSpecialist.ID, 7).
		Return([]usecase.TrendPoint{{Date: "2025-01-15", Total: 2}}, nil)

	w := httptest.NewRecorder()
	dashboardRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/trends?days=7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
