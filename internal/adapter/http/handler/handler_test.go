package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSpecialist is injected by withSpecialist in place of the auth
// middleware
var testSpecialist = &entity.Specialist{
	ID:        primitive.NewObjectID(),
	FirstName: "Ana",
	LastName:  "Reyes",
	Email:     "ana@hospital.test",
	Area:      entity.AreaHematology,
	Active:    true,
}

func withSpecialist() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("specialist", testSpecialist)
		c.Next()
	}
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.Specialist, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Specialist), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, *entity.Specialist, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*entity.Specialist), args.Error(2)
}

func (m *mockAuthService) Verify(ctx context.Context, token string) (*entity.Specialist, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Specialist), args.Error(1)
}

type mockAnalysisService struct {
	mock.Mock
}

func (m *mockAnalysisService) Analyze(ctx context.Context, imageData []byte, opts usecase.AnalyzeOptions) (*usecase.AnalysisPreview, error) {
	args := m.Called(ctx, imageData, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AnalysisPreview), args.Error(1)
}

func (m *mockAnalysisService) CreateRecord(ctx context.Context, specialistID primitive.ObjectID, input usecase.CreateRecordInput) (*entity.Record, error) {
	args := m.Called(ctx, specialistID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Record), args.Error(1)
}

type mockRecordService struct {
	mock.Mock
}

func (m *mockRecordService) List(ctx context.Context, specialistID primitive.ObjectID, filter repository.RecordFilter) ([]*entity.Record, error) {
	args := m.Called(ctx, specialistID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Record), args.Error(1)
}

func (m *mockRecordService) Get(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error) {
	args := m.Called(ctx, id, specialistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Record), args.Error(1)
}

func (m *mockRecordService) GetByCaseNumber(ctx context.Context, caseNumber string, specialistID primitive.ObjectID) (*entity.Record, error) {
	args := m.Called(ctx, caseNumber, specialistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Record), args.Error(1)
}

func (m *mockRecordService) Delete(ctx context.Context, id, specialistID primitive.ObjectID) error {
	return m.Called(ctx, id, specialistID).Error(0)
}

func (m *mockRecordService) RegenerateExplanation(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error) {
	args := m.Called(ctx, id, specialistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Record), args.Error(1)
}

type mockDashboardService struct {
	mock.Mock
}

func (m *mockDashboardService) GetStats(ctx context.Context, specialistID primitive.ObjectID) (*usecase.DashboardStats, error) {
	args := m.Called(ctx, specialistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DashboardStats), args.Error(1)
}

func (m *mockDashboardService) GetRecentActivity(ctx context.Context, specialistID primitive.ObjectID, limit int64) ([]usecase.ActivityItem, error) {
	args := m.Called(ctx, specialistID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.ActivityItem), args.Error(1)
}

func (m *mockDashboardService) GetTrends(ctx context.Context, specialistID primitive.ObjectID, days int) ([]usecase.TrendPoint, error) {
	args := m.Called(ctx, specialistID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.TrendPoint), args.Error(1)
}
