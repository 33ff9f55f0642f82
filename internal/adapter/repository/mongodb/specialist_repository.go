package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
)

const specialistCollection = "specialists"

type specialistRepository struct {
	collection *mongo.Collection
}

// NewSpecialistRepository creates a MongoDB-backed specialist repository
func NewSpecialistRepository(db *mongo.Database) repository.SpecialistRepository {
	return &specialistRepository{collection: db.Collection(specialistCollection)}
}

func (r *specialistRepository) Create(ctx context.Context, specialist *entity.Specialist) error {
	result, err := r.collection.InsertOne(ctx, specialist)
	if err != nil {
		return fmt.Errorf("failed to insert specialist: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		specialist.ID = id
	}
	return nil
}

func (r *specialistRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Specialist, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *specialistRepository) GetByEmail(ctx context.Context, email string) (*entity.Specialist, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *specialistRepository) GetByLicense(ctx context.Context, license string) (*entity.Specialist, error) {
	return r.findOne(ctx, bson.M{"license": license})
}

func (r *specialistRepository) findOne(ctx context.Context, filter bson.M) (*entity.Specialist, error) {
	var specialist entity.Specialist
	if err := r.collection.FindOne(ctx, filter).Decode(&specialist); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch specialist: %w", err)
	}
	return &specialist, nil
}

func (r *specialistRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update specialist: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *specialistRepository) TouchLastAccess(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"lastAccessAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update last access: %w", err)
	}
	return nil
}
