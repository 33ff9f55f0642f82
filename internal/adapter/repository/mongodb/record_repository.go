package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
)

const recordCollection = "records"

// ageBucketBoundaries groups patients by decade; the last bucket collects
// everyone aged 61 and above.
var ageBucketBoundaries = []interface{}{0, 11, 21, 31, 41, 51, 61, 200}

type recordRepository struct {
	collection *mongo.Collection
}

// NewRecordRepository creates a MongoDB-backed record repository
func NewRecordRepository(db *mongo.Database) repository.RecordRepository {
	return &recordRepository{collection: db.Collection(recordCollection)}
}

func (r *recordRepository) Create(ctx context.Context, record *entity.Record) error {
	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = id
	}
	return nil
}

func (r *recordRepository) GetByID(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error) {
	return r.findOne(ctx, bson.M{"_id": id, "specialistId": specialistID})
}

func (r *recordRepository) GetByCaseNumber(ctx context.Context, caseNumber string, specialistID primitive.ObjectID) (*entity.Record, error) {
	return r.findOne(ctx, bson.M{"caseNumber": caseNumber, "specialistId": specialistID})
}

func (r *recordRepository) findOne(ctx context.Context, filter bson.M) (*entity.Record, error) {
	var record entity.Record
	if err := r.collection.FindOne(ctx, filter).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	return &record, nil
}

func (r *recordRepository) List(ctx context.Context, specialistID primitive.ObjectID, filter repository.RecordFilter) ([]*entity.Record, error) {
	query := bson.M{"specialistId": specialistID}
	if filter.Label != "" {
		query["analysis.label"] = filter.Label
	}
	if filter.Search != "" {
		regex := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"patient.name": regex},
			bson.M{"caseNumber": regex},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "analyzedAt", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []*entity.Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) Delete(ctx context.Context, id, specialistID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "specialistId": specialistID})
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *recordRepository) CaseNumberExists(ctx context.Context, caseNumber string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"caseNumber": caseNumber}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check case number: %w", err)
	}
	return count > 0, nil
}

func (r *recordRepository) UpdateSummary(ctx context.Context, id primitive.ObjectID, summary string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"analysis.aiSummary": summary,
		"updatedAt":          time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *recordRepository) CountBySpecialist(ctx context.Context, specialistID primitive.ObjectID) (int64, error) {
	return r.count(ctx, bson.M{"specialistId": specialistID})
}

func (r *recordRepository) CountByLabel(ctx context.Context, specialistID primitive.ObjectID, label entity.Label) (int64, error) {
	return r.count(ctx, bson.M{"specialistId": specialistID, "analysis.label": label})
}

func (r *recordRepository) CountInRange(ctx context.Context, specialistID primitive.ObjectID, from, to time.Time) (int64, error) {
	return r.count(ctx, bson.M{
		"specialistId": specialistID,
		"analyzedAt":   bson.M{"$gte": from, "$lte": to},
	})
}

func (r *recordRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func (r *recordRepository) CountUniquePatients(ctx context.Context, specialistID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"specialistId": specialistID}}},
		{{Key: "$group", Value: bson.M{"_id": "$patient.name"}}},
		{{Key: "$count", Value: "total"}},
	}

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *recordRepository) AverageConfidence(ctx context.Context, specialistID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"specialistId": specialistID}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$analysis.confidence"},
		}}},
	}

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}

func (r *recordRepository) AgeDistribution(ctx context.Context, specialistID primitive.ObjectID) ([]repository.AgeBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"specialistId": specialistID}}},
		{{Key: "$bucket", Value: bson.M{
			"groupBy":    "$patient.age",
			"boundaries": ageBucketBoundaries,
			"default":    200,
			"output": bson.M{
				"total":     bson.M{"$sum": 1},
				"positives": positiveCount(),
			},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	var buckets []repository.AgeBucket
	if err := r.aggregate(ctx, pipeline, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *recordRepository) DailyTrends(ctx context.Context, specialistID primitive.ObjectID, from time.Time) ([]repository.DailyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"specialistId": specialistID,
			"analyzedAt":   bson.M{"$gte": from},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$analyzedAt",
			}},
			"total":     bson.M{"$sum": 1},
			"positives": positiveCount(),
			"negatives": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$analysis.label", entity.LabelNotAnemia}}, 1, 0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	var counts []repository.DailyCount
	if err := r.aggregate(ctx, pipeline, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *recordRepository) Recent(ctx context.Context, specialistID primitive.ObjectID, limit int64) ([]*entity.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "analyzedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"specialistId": specialistID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []*entity.Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate records: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}
	return nil
}

func positiveCount() bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$analysis.label", entity.LabelAnemia}}, 1, 0,
	}}}
}
