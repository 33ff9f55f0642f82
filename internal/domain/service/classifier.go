package service

import (
	"context"
	"errors"
	"image"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
)

// Classification errors. ErrModelLoad is fatal at startup; ErrInference is
// request-scoped and must not affect subsequent requests.
var (
	ErrModelLoad = errors.New("failed to load classification model")
	ErrInference = errors.New("inference failed")
)

// ClassificationResult represents the outcome of one forward pass
type ClassificationResult struct {
	Label         entity.Label             `json:"label"`
	Confidence    float64                  `json:"confidence"`
	Probabilities map[entity.Label]float64 `json:"probabilities"`
}

// Classifier runs anemia classification on a decoded RGB image.
// When wantHeatmap is true the returned composite places the original and
// its attention overlay side by side; heatmap construction is best-effort
// and degrades to the unmodified original image on failure. The composite
// is nil when wantHeatmap is false.
type Classifier interface {
	Classify(ctx context.Context, img image.Image, wantHeatmap bool) (*ClassificationResult, image.Image, error)
}
