package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
)

// RecordFilter narrows record listings
type RecordFilter struct {
	Label  entity.Label // zero value: no label filter
	Search string       // case-insensitive match on patient name or case number
	Skip   int64
	Limit  int64
}

// AgeBucket is one row of the age-distribution aggregation
type AgeBucket struct {
	LowerBound int   `bson:"_id"`
	Total      int64 `bson:"total"`
	Positives  int64 `bson:"positives"`
}

// DailyCount is one row of the per-day trend aggregation
type DailyCount struct {
	Date      string `bson:"_id"`
	Total     int64  `bson:"total"`
	Positives int64  `bson:"positives"`
	Negatives int64  `bson:"negatives"`
}

// RecordRepository defines persistence operations for detection records
type RecordRepository interface {
	Create(ctx context.Context, record *entity.Record) error
	GetByID(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error)
	GetByCaseNumber(ctx context.Context, caseNumber string, specialistID primitive.ObjectID) (*entity.Record, error)
	List(ctx context.Context, specialistID primitive.ObjectID, filter RecordFilter) ([]*entity.Record, error)
	Delete(ctx context.Context, id, specialistID primitive.ObjectID) error
	CaseNumberExists(ctx context.Context, caseNumber string) (bool, error)
	UpdateSummary(ctx context.Context, id primitive.ObjectID, summary string) error

	// Dashboard aggregations
	CountBySpecialist(ctx context.Context, specialistID primitive.ObjectID) (int64, error)
	CountByLabel(ctx context.Context, specialistID primitive.ObjectID, label entity.Label) (int64, error)
	CountInRange(ctx context.Context, specialistID primitive.ObjectID, from, to time.Time) (int64, error)
	CountUniquePatients(ctx context.Context, specialistID primitive.ObjectID) (int64, error)
	AverageConfidence(ctx context.Context, specialistID primitive.ObjectID) (float64, error)
	AgeDistribution(ctx context.Context, specialistID primitive.ObjectID) ([]AgeBucket, error)
	DailyTrends(ctx context.Context, specialistID primitive.ObjectID, from time.Time) ([]DailyCount, error)
	Recent(ctx context.Context, specialistID primitive.ObjectID, limit int64) ([]*entity.Record, error)
}
