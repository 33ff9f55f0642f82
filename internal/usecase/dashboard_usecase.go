package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
)

const statsCacheTTL = 60 * time.Second

// AgeRange is one labeled bucket of the age distribution
type AgeRange struct {
	Range     string `json:"range"`
	Total     int64  `json:"total"`
	Positives int64  `json:"positives"`
}

// DashboardStats aggregates a specialist's detection activity
type DashboardStats struct {
	TotalAnalyses     int64      `json:"total_analyses"`
	AnemiaDetected    int64      `json:"anemia_detected"`
	NormalResults     int64      `json:"normal_results"`
	UniquePatients    int64      `json:"unique_patients"`
	AverageConfidence float64    `json:"average_confidence"`
	AnalysesToday     int64      `json:"analyses_today"`
	AnalysesThisWeek  int64      `json:"analyses_this_week"`
	AnalysesThisMonth int64      `json:"analyses_this_month"`
	AgeDistribution   []AgeRange `json:"age_distribution"`
}

// ActivityItem is one row of the recent-activity feed
type ActivityItem struct {
	RecordID    string       `json:"record_id"`
	CaseNumber  string       `json:"case_number"`
	PatientName string       `json:"patient_name"`
	Label       entity.Label `json:"label"`
	Confidence  float64      `json:"confidence"`
	AnalyzedAt  time.Time    `json:"analyzed_at"`
}

// TrendPoint is one day of the detection trend series
type TrendPoint struct {
	Date      string `json:"date"`
	Total     int64  `json:"total"`
	Positives int64  `json:"positives"`
	Negatives int64  `json:"negatives"`
}

// ageRangeLabels maps aggregation bucket lower bounds to display ranges.
// Bucket boundaries are [0,11,21,31,41,51,61,200).
var ageRangeLabels = map[int]string{
	0:  "0-10",
	11: "11-20",
	21: "21-30",
	31: "31-40",
	41: "41-50",
	51: "51-60",
	61: "61+",
}

// DashboardUsecase serves aggregate views over a specialist's records.
// Stats are cached in Redis for a short interval; a nil cache client
// disables caching without changing behavior.
type DashboardUsecase struct {
	records repository.RecordRepository
	cache   *redis.Client
	log     *zap.Logger
}

// NewDashboardUsecase creates a new dashboard usecase
func NewDashboardUsecase(records repository.RecordRepository, cache *redis.Client, log *zap.Logger) *DashboardUsecase {
	return &DashboardUsecase{records: records, cache: cache, log: log}
}

// GetStats returns the aggregate dashboard statistics
func (uc *DashboardUsecase) GetStats(ctx context.Context, specialistID primitive.ObjectID) (*DashboardStats, error) {
	cacheKey := fmt.Sprintf("scanna:dashboard:stats:%s", specialistID.Hex())

	if cached := uc.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	stats, err := uc.computeStats(ctx, specialistID)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, cacheKey, stats)
	return stats, nil
}

func (uc *DashboardUsecase) computeStats(ctx context.Context, specialistID primitive.ObjectID) (*DashboardStats, error) {
	total, err := uc.records.CountBySpecialist(ctx, specialistID)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	positives, err := uc.records.CountByLabel(ctx, specialistID, entity.LabelAnemia)
	if err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}

	patients, err := uc.records.CountUniquePatients(ctx, specialistID)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	avgConfidence, err := uc.records.AverageConfidence(ctx, specialistID)
	if err != nil {
		return nil, fmt.Errorf("failed to average confidence: %w", err)
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	today, err := uc.records.CountInRange(ctx, specialistID, dayStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count daily records: %w", err)
	}
	week, err := uc.records.CountInRange(ctx, specialistID, weekStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly records: %w", err)
	}
	month, err := uc.records.CountInRange(ctx, specialistID, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly records: %w", err)
	}

	buckets, err := uc.records.AgeDistribution(ctx, specialistID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ages: %w", err)
	}

	return &DashboardStats{
		TotalAnalyses:     total,
		AnemiaDetected:    positives,
		NormalResults:     total - positives,
		UniquePatients:    patients,
		AverageConfidence: avgConfidence,
		AnalysesToday:     today,
		AnalysesThisWeek:  week,
		AnalysesThisMonth: month,
		AgeDistribution:   labelAgeBuckets(buckets),
	}, nil
}

// GetRecentActivity returns the most recent analyses, newest first
func (uc *DashboardUsecase) GetRecentActivity(ctx context.Context, specialistID primitive.ObjectID, limit int64) ([]ActivityItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	records, err := uc.records.Recent(ctx, specialistID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent records: %w", err)
	}

	items := make([]ActivityItem, 0, len(records))
	for _, r := range records {
		items = append(items, ActivityItem{
			RecordID:    r.ID.Hex(),
			CaseNumber:  r.CaseNumber,
			PatientName: r.Patient.Name,
			Label:       r.Analysis.Label,
			Confidence:  r.Analysis.Confidence,
			AnalyzedAt:  r.AnalyzedAt,
		})
	}
	return items, nil
}

// GetTrends returns per-day detection counts for the trailing window
func (uc *DashboardUsecase) GetTrends(ctx context.Context, specialistID primitive.ObjectID, days int) ([]TrendPoint, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	from := time.Now().UTC().AddDate(0, 0, -days)
	counts, err := uc.records.DailyTrends(ctx, specialistID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trends: %w", err)
	}

	points := make([]TrendPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, TrendPoint{
			Date:      c.Date,
			Total:     c.Total,
			Positives: c.Positives,
			Negatives: c.Negatives,
		})
	}
	return points, nil
}

func labelAgeBuckets(buckets []repository.AgeBucket) []AgeRange {
	ranges := make([]AgeRange, 0, len(buckets))
	for _, b := range buckets {
		label, ok := ageRangeLabels[b.LowerBound]
		if !ok {
			label = fmt.Sprintf("%d+", b.LowerBound)
		}
		ranges = append(ranges, AgeRange{Range: label, Total: b.Total, Positives: b.Positives})
	}
	return ranges
}

func (uc *DashboardUsecase) fromCache(ctx context.Context, key string) *DashboardStats {
	if uc.cache == nil {
		return nil
	}

	raw, err := uc.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			uc.log.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}

	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		uc.log.Warn("dashboard cache entry corrupt", zap.Error(err))
		return nil
	}
	return &stats
}

func (uc *DashboardUsecase) toCache(ctx context.Context, key string, stats *DashboardStats) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, raw, statsCacheTTL).Err(); err != nil {
		uc.log.Warn("dashboard cache write failed", zap.Error(err))
	}
}
