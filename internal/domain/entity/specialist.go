package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Area represents a specialist's medical area
type Area string

const (
	AreaGeneralMedicine  Area = "General Medicine"
	AreaHematology       Area = "Hematology"
	AreaInternalMedicine Area = "Internal Medicine"
	AreaPediatrics       Area = "Pediatrics"
	AreaGynecology       Area = "Gynecology"
	AreaOther            Area = "Other"
)

// ValidAreas lists the accepted medical areas
var ValidAreas = map[Area]bool{
	AreaGeneralMedicine:  true,
	AreaHematology:       true,
	AreaInternalMedicine: true,
	AreaPediatrics:       true,
	AreaGynecology:       true,
	AreaOther:            true,
}

// Specialist represents a registered medical specialist
type Specialist struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName    string             `json:"first_name" bson:"firstName"`
	LastName     string             `json:"last_name" bson:"lastName"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Area         Area               `json:"area" bson:"area"`
	License      string             `json:"license,omitempty" bson:"license,omitempty"`
	Hospital     string             `json:"hospital,omitempty" bson:"hospital,omitempty"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Active       bool               `json:"active" bson:"active"`
	RegisteredAt time.Time          `json:"registered_at" bson:"registeredAt"`
	LastAccessAt *time.Time         `json:"last_access_at,omitempty" bson:"lastAccessAt,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

// NewSpecialist creates an active specialist with registration timestamps set
func NewSpecialist(firstName, lastName, email, passwordHash string, area Area) *Specialist {
	now := time.Now().UTC()
	return &Specialist{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		Area:         area,
		Active:       true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}
