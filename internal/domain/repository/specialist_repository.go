package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
)

// SpecialistRepository defines persistence operations for specialists
type SpecialistRepository interface {
	Create(ctx context.Context, specialist *entity.Specialist) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Specialist, error)
	GetByEmail(ctx context.Context, email string) (*entity.Specialist, error)
	GetByLicense(ctx context.Context, license string) (*entity.Specialist, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	TouchLastAccess(ctx context.Context, id primitive.ObjectID) error
}
