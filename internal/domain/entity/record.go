package entity

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Label represents the two-class classification outcome
type Label string

const (
	LabelAnemia    Label = "ANEMIA"
	LabelNotAnemia Label = "NOT_ANEMIA"
)

// Valid reports whether the label is one of the two known classes
func (l Label) Valid() bool {
	return l == LabelAnemia || l == LabelNotAnemia
}

// DisplayName returns the human-readable form used in prompts and reports
func (l Label) DisplayName() string {
	if l == LabelAnemia {
		return "Anemia"
	}
	return "No Anemia"
}

// Sex represents patient sex
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
	SexOther  Sex = "Other"
)

// ValidSexes lists the accepted patient sex values
var ValidSexes = map[Sex]bool{
	SexMale:   true,
	SexFemale: true,
	SexOther:  true,
}

// Patient holds the patient metadata attached to a record
type Patient struct {
	Name string `json:"name" bson:"name"`
	Age  int    `json:"age" bson:"age"`
	Sex  Sex    `json:"sex" bson:"sex"`
}

// RecordImages holds the stored image paths, relative to the upload root
type RecordImages struct {
	OriginalPath     string `json:"original_path" bson:"originalPath"`
	AttentionMapPath string `json:"attention_map_path,omitempty" bson:"attentionMapPath,omitempty"`
}

// Analysis holds the classification outcome persisted with a record
type Analysis struct {
	Label      Label   `json:"label" bson:"label"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	AISummary  string  `json:"ai_summary,omitempty" bson:"aiSummary,omitempty"`
}

// Record represents one persisted detection for a patient
type Record struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseNumber   string             `json:"case_number" bson:"caseNumber"`
	Patient      Patient            `json:"patient" bson:"patient"`
	SpecialistID primitive.ObjectID `json:"specialist_id" bson:"specialistId"`
	Images       RecordImages       `json:"images" bson:"images"`
	Analysis     Analysis           `json:"analysis" bson:"analysis"`
	AnalyzedAt   time.Time          `json:"analyzed_at" bson:"analyzedAt"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

// NewRecord creates a record with analysis timestamps set
func NewRecord(caseNumber string, patient Patient, specialistID primitive.ObjectID, images RecordImages, analysis Analysis) *Record {
	now := time.Now().UTC()
	return &Record{
		CaseNumber:   caseNumber,
		Patient:      patient,
		SpecialistID: specialistID,
		Images:       images,
		Analysis:     analysis,
		AnalyzedAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

const caseNumberChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var caseNumberPattern = regexp.MustCompile(`^\d{8}-[A-Z0-9]{4}$`)

// GenerateCaseNumber produces a case number in the form YYYYMMDD-XXXX.
// Uniqueness is enforced at the repository level.
func GenerateCaseNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = caseNumberChars[rand.Intn(len(caseNumberChars))]
	}
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102"), suffix)
}

// ValidCaseNumber reports whether s matches the YYYYMMDD-XXXX format
func ValidCaseNumber(s string) bool {
	return caseNumberPattern.MatchString(s)
}
