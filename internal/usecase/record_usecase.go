package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/service"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrInvalidCaseNumber = errors.New("invalid case number format")
)

// RecordUsecase handles queries and lifecycle of persisted detection
// records. All operations are scoped to the owning specialist.
type RecordUsecase struct {
	records   repository.RecordRepository
	explainer service.Explainer
	files     FileStore
	log       *zap.Logger
}

// NewRecordUsecase creates a new record usecase
func NewRecordUsecase(records repository.RecordRepository, explainer service.Explainer, files FileStore, log *zap.Logger) *RecordUsecase {
	return &RecordUsecase{records: records, explainer: explainer, files: files, log: log}
}

// List returns the specialist's records, newest analysis first
func (uc *RecordUsecase) List(ctx context.Context, specialistID primitive.ObjectID, filter repository.RecordFilter) ([]*entity.Record, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	records, err := uc.records.List(ctx, specialistID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// Get returns a single record by id
func (uc *RecordUsecase) Get(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error) {
	record, err := uc.records.GetByID(ctx, id, specialistID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	return record, nil
}

// GetByCaseNumber returns a single record by its case number
func (uc *RecordUsecase) GetByCaseNumber(ctx context.Context, caseNumber string, specialistID primitive.ObjectID) (*entity.Record, error) {
	if !entity.ValidCaseNumber(caseNumber) {
		return nil, ErrInvalidCaseNumber
	}

	record, err := uc.records.GetByCaseNumber(ctx, caseNumber, specialistID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	return record, nil
}

// Delete removes a record together with its stored images
func (uc *RecordUsecase) Delete(ctx context.Context, id, specialistID primitive.ObjectID) error {
	record, err := uc.Get(ctx, id, specialistID)
	if err != nil {
		return err
	}

	if err := uc.records.Delete(ctx, id, specialistID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}

	for _, path := range []string{record.Images.OriginalPath, record.Images.AttentionMapPath} {
		if path == "" {
			continue
		}
		if err := uc.files.Delete(path); err != nil {
			uc.log.Warn("failed to remove stored image",
				zap.String("case_number", record.CaseNumber),
				zap.String("path", path),
				zap.Error(err))
		}
	}

	uc.log.Info("record deleted",
		zap.String("record_id", id.Hex()),
		zap.String("case_number", record.CaseNumber))
	return nil
}

// RegenerateExplanation produces a fresh text-only explanation for an
// existing record and persists it as the record's summary
func (uc *RecordUsecase) RegenerateExplanation(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error) {
	record, err := uc.Get(ctx, id, specialistID)
	if err != nil {
		return nil, err
	}

	explanation := uc.explainer.ExplainWithoutImage(ctx, record.Analysis.Label, record.Analysis.Confidence)
	if err := uc.records.UpdateSummary(ctx, id, explanation.Text); err != nil {
		return nil, fmt.Errorf("failed to update summary: %w", err)
	}

	uc.log.Info("record explanation regenerated",
		zap.String("record_id", id.Hex()),
		zap.Bool("fallback", explanation.Fallback()))

	record.Analysis.AISummary = explanation.Text
	return record, nil
}
