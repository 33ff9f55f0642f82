package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
)

// ErrEmptyUpdate is returned when a profile update carries no fields
var ErrEmptyUpdate = errors.New("no fields to update")

// UpdateProfileInput carries the mutable profile fields. Nil pointers leave
// the current value unchanged.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Area      *entity.Area
	Hospital  *string
	Phone     *string
}

// SpecialistStats summarizes a specialist's analysis activity
type SpecialistStats struct {
	TotalAnalyses     int64            `json:"total_analyses"`
	AnemiaDetected    int64            `json:"anemia_detected"`
	NormalResults     int64            `json:"normal_results"`
	PositivityRate    float64          `json:"positivity_rate"`
	AnalysesThisMonth int64            `json:"analyses_this_month"`
	AverageConfidence float64          `json:"average_confidence"`
	LastAnalyses      []*entity.Record `json:"last_analyses"`
}

// SpecialistUsecase handles specialist profile operations
type SpecialistUsecase struct {
	specialists repository.SpecialistRepository
	records     repository.RecordRepository
	log         *zap.Logger
}

// NewSpecialistUsecase creates a new specialist usecase
func NewSpecialistUsecase(specialists repository.SpecialistRepository, records repository.RecordRepository, log *zap.Logger) *SpecialistUsecase {
	return &SpecialistUsecase{specialists: specialists, records: records, log: log}
}

// GetProfile returns the specialist's profile
func (uc *SpecialistUsecase) GetProfile(ctx context.Context, id primitive.ObjectID) (*entity.Specialist, error) {
	specialist, err := uc.specialists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpecialistNotFound
		}
		return nil, fmt.Errorf("failed to fetch specialist: %w", err)
	}
	return specialist, nil
}

// UpdateProfile applies the provided profile changes and returns the
// updated specialist
func (uc *SpecialistUsecase) UpdateProfile(ctx context.Context, id primitive.ObjectID, input UpdateProfileInput) (*entity.Specialist, error) {
	fields := map[string]interface{}{}
	if input.FirstName != nil {
		fields["firstName"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["lastName"] = *input.LastName
	}
	if input.Area != nil {
		if !entity.ValidAreas[*input.Area] {
			return nil, ErrInvalidArea
		}
		fields["area"] = *input.Area
	}
	if input.Hospital != nil {
		fields["hospital"] = *input.Hospital
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}

	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}

	fields["updatedAt"] = time.Now().UTC()
	if err := uc.specialists.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpecialistNotFound
		}
		return nil, fmt.Errorf("failed to update specialist: %w", err)
	}
	uc.log.Info("specialist profile updated",
		zap.String("specialist_id", id.Hex()),
		zap.Int("fields", len(fields)-1))

	return uc.GetProfile(ctx, id)
}

// GetStats returns the specialist's aggregate analysis activity
func (uc *SpecialistUsecase) GetStats(ctx context.Context, id primitive.ObjectID) (*SpecialistStats, error) {
	total, err := uc.records.CountBySpecialist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}

	positives, err := uc.records.CountByLabel(ctx, id, entity.LabelAnemia)
	if err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	thisMonth, err := uc.records.CountInRange(ctx, id, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly analyses: %w", err)
	}

	avgConfidence, err := uc.records.AverageConfidence(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to average confidence: %w", err)
	}

	recent, err := uc.records.Recent(ctx, id, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent analyses: %w", err)
	}

	rate := 0.0
	if total > 0 {
		rate = float64(positives) / float64(total) * 100
	}

	return &SpecialistStats{
		TotalAnalyses:     total,
		AnemiaDetected:    positives,
		NormalResults:     total - positives,
		PositivityRate:    rate,
		AnalysesThisMonth: thisMonth,
		AverageConfidence: avgConfidence,
		LastAnalyses:      recent,
	}, nil
}
