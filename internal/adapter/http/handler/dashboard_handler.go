package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

// DashboardService is the aggregate-view surface consumed by the handler
type DashboardService interface {
	GetStats(ctx context.Context, specialistID primitive.ObjectID) (*usecase.DashboardStats, error)
	GetRecentActivity(ctx context.Context, specialistID primitive.ObjectID, limit int64) ([]usecase.ActivityItem, error)
	GetTrends(ctx context.Context, specialistID primitive.ObjectID, days int) ([]usecase.TrendPoint, error)
}

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboard DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	stats, err := h.dashboard.GetStats(c.Request.Context(), specialist.ID)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}

// GetRecentActivity handles GET /api/v1/dashboard/recent-activity
func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	items, err := h.dashboard.GetRecentActivity(c.Request.Context(), specialist.ID, queryInt64(c, "limit", 10))
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, items)
}

// GetTrends handles GET /api/v1/dashboard/trends
func (h *DashboardHandler) GetTrends(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	points, err := h.dashboard.GetTrends(c.Request.Context(), specialist.ID, int(queryInt64(c, "days", 30)))
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, points)
}
