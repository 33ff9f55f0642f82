package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

type mockSpecialistService struct {
	mock.Mock
}

func (m *mockSpecialistService) GetProfile(ctx context.Context, id primitive.ObjectID) (*entity.Specialist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Specialist), args.Error(1)
}

func (m *mockSpecialistService) UpdateProfile(ctx context.Context, id primitive.ObjectID, input usecase.UpdateProfileInput) (*entity.Specialist, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Specialist), args.Error(1)
}

func (m *mockSpecialistService) GetStats(ctx context.Context, id primitive.ObjectID) (*usecase.SpecialistStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SpecialistStats), args.Error(1)
}

func specialistRouter(svc SpecialistService) *gin.Engine {
	h := NewSpecialistHandler(svc)
	r := gin.New()
	group := r.Group("/specialists", withSpecialist())
	{
		group.GET("/profile", h.GetProfile)
		group.PUT("/profile", h.UpdateProfile)
		group.GET("/stats", h.GetStats)
	}
	return r
}

func TestSpecialistHandler_GetProfile(t *testing.T) {
	svc := new(mockSpecialistService)
	svc.On("GetProfile", mock.Anything, testSpecialist.ID).Return(testSpecialist, nil)

	w := httptest.NewRecorder()
	specialistRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/specialists/profile", nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, testSpecialist.Email, data["email"])
}

func TestSpecialistHandler_UpdateProfile(t *testing.T) {
	t.Run("passes only the provided fields through", func(t *testing.T) {
		svc := new(mockSpecialistService)
		svc.On("UpdateProfile", mock.Anything, testSpecialist.ID, mock.MatchedBy(func(input usecase.UpdateProfileInput) bool {
			return input.Hospital != nil && *input.Hospital == "General Hospital" && input.FirstName == nil
		})).Return(testSpecialist, nil)

		body := bytes.NewBufferString(`{"hospital":"General Hospital"}`)
		req := httptest.NewRequest(http.MethodPut, "/specialists/profile", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		specialistRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("empty update maps to 400", func(t *testing.T) {
		svc := new(mockSpecialistService)
		svc.On("UpdateProfile", mock.Anything, testSpecialist.ID, usecase.UpdateProfileInput{}).
			Return(nil, usecase.ErrEmptyUpdate)

		req := httptest.NewRequest(http.MethodPut, "/specialists/profile", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		specialistRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "EMPTY_UPDATE", decodeResponse(t, w).Error.Code)
	})
}

func TestSpecialistHandler_GetStats(t *testing.T) {
	svc := new(mockSpecialistService)
	svc.On("GetStats", mock.Anything, testSpecialist.ID).Return(&usecase.SpecialistStats{
		TotalAnalyses:     12,
		AnemiaDetected:    4,
		NormalResults:     8,
		PositivityRate:    33.33,
		AnalysesThisMonth: 3,
		AverageConfidence: 88.8,
		LastAnalyses:      []*entity.Record{},
	}, nil)

	w := httptest.NewRecorder()
	specialistRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/specialists/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(12), data["total_analyses"])
	assert.Equal(t, float64(8), data["normal_results"])
	assert.InDelta(t, 33.33, data["positivity_rate"], 0.01)
}
