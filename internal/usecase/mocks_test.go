package usecase

import (
	"context"
	"image"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/service"
)

type mockSpecialistRepo struct {
	mock.Mock
}

func (m *mockSpecialistRepo) Create(ctx context.Context, specialist *entity.Specialist) error {
	return m.Called(ctx, specialist).Error(0)
}

func (m *mockSpecialistRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Specialist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Specialist), args.Error(1)
}

func (m *mockSpecialistRepo) GetByEmail(ctx context.Context, email string) (*entity.Specialist, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Specialist), args.Error(1)
}

func (m *mockSpecialistRepo) GetByLicense(ctx context.Context, license string) (*entity.Specialist, error) {
	args := m.Called(ctx, license)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Specialist), args.Error(1)
}

func (m *mockSpecialistRepo) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockSpecialistRepo) TouchLastAccess(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockRecordRepo struct {
	mock.Mock
}

func (m *mockRecordRepo) Create(ctx context.Context, record *entity.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockRecordRepo) GetByID(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error) {
	args := m.Called(ctx, id, specialistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Record), args.Error(1)
}

func (m *mockRecordRepo) GetByCaseNumber(ctx context.Context, caseNumber string, specialistID primitive.ObjectID) (*entity.Record, error) {
	args := m.Called(ctx, caseNumber, specialistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Record), args.Error(1)
}

func (m *mockRecordRepo) List(ctx context.Context, specialistID primitive.ObjectID, filter repository.RecordFilter) ([]*entity.Record, error) {
	args := m.Called(ctx, specialistID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Record), args.Error(1)
}

func (m *mockRecordRepo) Delete(ctx context.Context, id, specialistID primitive.ObjectID) error {
	return m.Called(ctx, id, specialistID).Error(0)
}

func (m *mockRecordRepo) CaseNumberExists(ctx context.Context, caseNumber string) (bool, error) {
	args := m.Called(ctx, caseNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecordRepo) UpdateSummary(ctx context.Context, id primitive.ObjectID, summary string) error {
	return m.Called(ctx, id, summary).Error(0)
}

func (m *mockRecordRepo) CountBySpecialist(ctx context.Context, specialistID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, specialistID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecordRepo) CountByLabel(ctx context.Context, specialistID primitive.ObjectID, label entity.Label) (int64, error) {
	args := m.Called(ctx, specialistID, label)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecordRepo) CountInRange(ctx context.Context, specialistID primitive.ObjectID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, specialistID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecordRepo) CountUniquePatients(ctx context.Context, specialistID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, specialistID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecordRepo) AverageConfidence(ctx context.Context, specialistID primitive.ObjectID) (float64, error) {
	args := m.Called(ctx, specialistID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRecordRepo) AgeDistribution(ctx context.Context, specialistID primitive.ObjectID) ([]repository.AgeBucket, error) {
	args := m.Called(ctx, specialistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AgeBucket), args.Error(1)
}

func (m *mockRecordRepo) DailyTrends(ctx context.Context, specialistID primitive.ObjectID, from time.Time) ([]repository.DailyCount, error) {
	args := m.Called(ctx, specialistID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DailyCount), args.Error(1)
}

func (m *mockRecordRepo) Recent(ctx context.Context, specialistID primitive.ObjectID, limit int64) ([]*entity.Record, error) {
	args := m.Called(ctx, specialistID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Record), args.Error(1)
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, img image.Image, wantHeatmap bool) (*service.ClassificationResult, image.Image, error) {
	args := m.Called(ctx, img, wantHeatmap)
	var result *service.ClassificationResult
	if args.Get(0) != nil {
		result = args.Get(0).(*service.ClassificationResult)
	}
	var composite image.Image
	if args.Get(1) != nil {
		composite = args.Get(1).(image.Image)
	}
	return result, composite, args.Error(2)
}

type mockExplainer struct {
	mock.Mock
}

func (m *mockExplainer) ExplainWithImage(ctx context.Context, label entity.Label, composite image.Image) service.Explanation {
	return m.Called(ctx, label, composite).Get(0).(service.Explanation)
}

func (m *mockExplainer) ExplainWithoutImage(ctx context.Context, label entity.Label, confidence float64) service.Explanation {
	return m.Called(ctx, label, confidence).Get(0).(service.Explanation)
}

type mockFileStore struct {
	mock.Mock
}

func (m *mockFileStore) SaveOriginal(caseNumber, ext string, data []byte) (string, error) {
	args := m.Called(caseNumber, ext, data)
	return args.String(0), args.Error(1)
}

func (m *mockFileStore) SaveAttentionMap(caseNumber, ext string, data []byte) (string, error) {
	args := m.Called(caseNumber, ext, data)
	return args.String(0), args.Error(1)
}

func (m *mockFileStore) Delete(relPath string) error {
	return m.Called(relPath).Error(0)
}
