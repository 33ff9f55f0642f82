package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
)

func TestSpecialistUsecase_UpdateProfile(t *testing.T) {
	specialist := registeredSpecialist("pw")
	hospital := "General Hospital"
	badArea := entity.Area("Alchemy")

	t.Run("updates only the provided fields", func(t *testing.T) {
		specialists := new(mockSpecialistRepo)
		specialists.On("Update", mock.Anything, specialist.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			_, hasHospital := fields["hospital"]
			_, hasFirstName := fields["firstName"]
			return hasHospital && !hasFirstName
		})).Return(nil)
		specialists.On("GetByID", mock.Anything, specialist.ID).Return(specialist, nil)

		uc := NewSpecialistUsecase(specialists, new(mockRecordRepo), zap.NewNop())
		_, err := uc.UpdateProfile(context.Background(), specialist.ID, UpdateProfileInput{Hospital: &hospital})

		require.NoError(t, err)
		specialists.AssertExpectations(t)
	})

	t.Run("rejects unknown areas", func(t *testing.T) {
		specialists := new(mockSpecialistRepo)
		uc := NewSpecialistUsecase(specialists, new(mockRecordRepo), zap.NewNop())

		_, err := uc.UpdateProfile(context.Background(), specialist.ID, UpdateProfileInput{Area: &badArea})

		assert.ErrorIs(t, err, ErrInvalidArea)
		specialists.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refuses an empty update", func(t *testing.T) {
		specialists := new(mockSpecialistRepo)
		uc := NewSpecialistUsecase(specialists, new(mockRecordRepo), zap.NewNop())

		_, err := uc.UpdateProfile(context.Background(), specialist.ID, UpdateProfileInput{})

		assert.ErrorIs(t, err, ErrEmptyUpdate)
		specialists.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSpecialistUsecase_GetStats(t *testing.T) {
	specialist := registeredSpecialist("pw")

	records := new(mockRecordRepo)
	records.On("CountBySpecialist", mock.Anything, specialist.ID).Return(int64(12), nil)
	records.On("CountByLabel", mock.Anything, specialist.ID, entity.LabelAnemia).Return(int64(4), nil)
	records.On("CountInRange", mock.Anything, specialist.ID, mock.Anything, mock.Anything).Return(int64(3), nil)
	records.On("AverageConfidence", mock.Anything, specialist.ID).Return(88.8, nil)
	records.On("Recent", mock.Anything, specialist.ID, int64(5)).Return([]*entity.Record{}, nil)

	uc := NewSpecialistUsecase(new(mockSpecialistRepo), records, zap.NewNop())
	stats, err := uc.GetStats(context.Background(), specialist.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalAnalyses)
	assert.Equal(t, int64(4), stats.AnemiaDetected)
	assert.Equal(t, int64(8), stats.NormalResults)
	assert.InDelta(t, 33.33, stats.PositivityRate, 0.01)
	assert.Equal(t, int64(3), stats.AnalysesThisMonth)
	assert.Equal(t, 88.8, stats.AverageConfidence)
}
