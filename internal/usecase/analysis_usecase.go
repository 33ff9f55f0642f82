package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/adapter/vision"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/service"
)

var (
	ErrInvalidImage       = errors.New("invalid image")
	ErrImageDimensions    = errors.New("image dimensions out of range")
	ErrInvalidPatient     = errors.New("invalid patient data")
	ErrAnalysisFailed     = errors.New("analysis failed")
	ErrCaseNumberConflict = errors.New("could not allocate a unique case number")
	ErrCaseNumberTaken    = errors.New("case number already in use")
)

// Accepted input image dimensions, per side, in pixels
const (
	minImageDim = 100
	maxImageDim = 10000
)

const caseNumberAttempts = 5

// FileStore persists uploaded and generated images. Paths are relative to
// the upload root.
type FileStore interface {
	SaveOriginal(caseNumber, ext string, data []byte) (string, error)
	SaveAttentionMap(caseNumber, ext string, data []byte) (string, error)
	Delete(relPath string) error
}

// AnalyzeOptions selects the optional outputs of a preview analysis
type AnalyzeOptions struct {
	WantHeatmap     bool
	WantExplanation bool
}

// AnalysisPreview is the outcome of a non-persisted analysis. The heatmap,
// when requested, is inlined as a data URL since nothing is stored.
type AnalysisPreview struct {
	Label         entity.Label             `json:"label"`
	DisplayName   string                   `json:"display_name"`
	Confidence    float64                  `json:"confidence"`
	Probabilities map[entity.Label]float64 `json:"probabilities"`
	Explanation   string                   `json:"explanation,omitempty"`
	Fallback      bool                     `json:"explanation_fallback,omitempty"`
	Heatmap       string                   `json:"heatmap,omitempty"`
}

// CreateRecordInput carries a full detection request. CaseNumber is
// optional; when empty a unique one is generated.
type CreateRecordInput struct {
	Patient    entity.Patient
	CaseNumber string
	ImageData  []byte
	Extension  string
}

// AnalysisUsecase runs the detection pipeline: decode, classify, render the
// attention composite, persist images, generate the explanation and
// assemble the record.
type AnalysisUsecase struct {
	records    repository.RecordRepository
	classifier service.Classifier
	explainer  service.Explainer
	files      FileStore
	log        *zap.Logger
}

// NewAnalysisUsecase creates a new analysis usecase
func NewAnalysisUsecase(
	records repository.RecordRepository,
	classifier service.Classifier,
	explainer service.Explainer,
	files FileStore,
	log *zap.Logger,
) *AnalysisUsecase {
	return &AnalysisUsecase{
		records:    records,
		classifier: classifier,
		explainer:  explainer,
		files:      files,
		log:        log,
	}
}

// Analyze classifies an image without persisting anything. The heatmap and
// explanation are opt-in; a requested heatmap is returned inline.
func (uc *AnalysisUsecase) Analyze(ctx context.Context, imageData []byte, opts AnalyzeOptions) (*AnalysisPreview, error) {
	img, err := uc.decodeAndValidate(imageData)
	if err != nil {
		return nil, err
	}

	result, composite, err := uc.classifier.Classify(ctx, img, opts.WantHeatmap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	preview := &AnalysisPreview{
		Label:         result.Label,
		DisplayName:   result.Label.DisplayName(),
		Confidence:    result.Confidence,
		Probabilities: result.Probabilities,
	}

	if opts.WantExplanation {
		explanation := uc.explain(ctx, result, composite)
		preview.Explanation = explanation.Text
		preview.Fallback = explanation.Fallback()
	}

	if opts.WantHeatmap && composite != nil {
		encoded, err := encodeDataURL(composite)
		if err != nil {
			uc.log.Warn("failed to encode preview heatmap", zap.Error(err))
		} else {
			preview.Heatmap = encoded
		}
	}

	return preview, nil
}

// CreateRecord runs the full pipeline and persists the detection record
// together with the original image and its attention composite.
func (uc *AnalysisUsecase) CreateRecord(ctx context.Context, specialistID primitive.ObjectID, input CreateRecordInput) (*entity.Record, error) {
	if err := validatePatient(input.Patient); err != nil {
		return nil, err
	}

	img, err := uc.decodeAndValidate(input.ImageData)
	if err != nil {
		return nil, err
	}

	caseNumber, err := uc.resolveCaseNumber(ctx, input.CaseNumber)
	if err != nil {
		return nil, err
	}

	result, composite, err := uc.classifier.Classify(ctx, img, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	originalPath, err := uc.files.SaveOriginal(caseNumber, input.Extension, input.ImageData)
	if err != nil {
		return nil, fmt.Errorf("failed to store original image: %w", err)
	}

	mapPath, err := uc.saveComposite(caseNumber, composite)
	if err != nil {
		// The composite is derived data; losing it degrades the record but
		// does not invalidate the analysis.
		uc.log.Warn("failed to store attention composite",
			zap.String("case_number", caseNumber), zap.Error(err))
		mapPath = ""
	}

	explanation := uc.explain(ctx, result, composite)

	record := entity.NewRecord(caseNumber, input.Patient, specialistID, entity.RecordImages{
		OriginalPath:     originalPath,
		AttentionMapPath: mapPath,
	}, entity.Analysis{
		Label:      result.Label,
		Confidence: result.Confidence,
		AISummary:  explanation.Text,
	})

	if err := uc.records.Create(ctx, record); err != nil {
		uc.cleanupFiles(originalPath, mapPath)
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	uc.log.Info("detection record created",
		zap.String("case_number", caseNumber),
		zap.String("label", string(result.Label)),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("explanation_fallback", explanation.Fallback()))

	return record, nil
}

func (uc *AnalysisUsecase) decodeAndValidate(data []byte) (image.Image, error) {
	img, _, err := vision.DecodeRGB(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w < minImageDim || h < minImageDim || w > maxImageDim || h > maxImageDim {
		return nil, fmt.Errorf("%w: %dx%d (accepted: %d-%d per side)",
			ErrImageDimensions, w, h, minImageDim, maxImageDim)
	}
	return img, nil
}

// resolveCaseNumber validates a caller-supplied case number or generates a
// fresh unique one
func (uc *AnalysisUsecase) resolveCaseNumber(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		if !entity.ValidCaseNumber(requested) {
			return "", ErrInvalidCaseNumber
		}
		exists, err := uc.records.CaseNumberExists(ctx, requested)
		if err != nil {
			return "", fmt.Errorf("failed to check case number: %w", err)
		}
		if exists {
			return "", ErrCaseNumberTaken
		}
		return requested, nil
	}

	for i := 0; i < caseNumberAttempts; i++ {
		caseNumber := entity.GenerateCaseNumber()
		exists, err := uc.records.CaseNumberExists(ctx, caseNumber)
		if err != nil {
			return "", fmt.Errorf("failed to check case number: %w", err)
		}
		if !exists {
			return caseNumber, nil
		}
	}
	return "", ErrCaseNumberConflict
}

func (uc *AnalysisUsecase) saveComposite(caseNumber string, composite image.Image) (string, error) {
	if composite == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, composite, &jpeg.Options{Quality: 90}); err != nil {
		return "", err
	}
	return uc.files.SaveAttentionMap(caseNumber, ".jpg", buf.Bytes())
}

// explain prefers the image-grounded explanation when a composite exists
func (uc *AnalysisUsecase) explain(ctx context.Context, result *service.ClassificationResult, composite image.Image) service.Explanation {
	if composite != nil {
		return uc.explainer.ExplainWithImage(ctx, result.Label, composite)
	}
	return uc.explainer.ExplainWithoutImage(ctx, result.Label, result.Confidence)
}

func (uc *AnalysisUsecase) cleanupFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := uc.files.Delete(p); err != nil {
			uc.log.Warn("failed to remove stored image", zap.String("path", p), zap.Error(err))
		}
	}
}

// encodeDataURL serializes an image as an inline JPEG data URL
func encodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func validatePatient(p entity.Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPatient)
	}
	if p.Age < 0 || p.Age > 150 {
		return fmt.Errorf("%w: age must be between 0 and 150", ErrInvalidPatient)
	}
	if !entity.ValidSexes[p.Sex] {
		return fmt.Errorf("%w: unknown sex %q", ErrInvalidPatient, p.Sex)
	}
	return nil
}
