package client

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/service"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/metrics"
)

// GeminiExplainer implements service.Explainer on top of the Gemini API.
// Without a configured credential it makes no network calls at all and
// resolves straight to the fallback text.
type GeminiExplainer struct {
	client *GeminiClient
	log    *zap.Logger
	met    *metrics.Metrics
}

// NewGeminiExplainer creates a new explainer backed by the given client
func NewGeminiExplainer(client *GeminiClient, log *zap.Logger, met *metrics.Metrics) *GeminiExplainer {
	return &GeminiExplainer{client: client, log: log, met: met}
}

// ExplainWithImage generates an explanation grounded on the side-by-side
// composite (original plus attention map)
func (e *GeminiExplainer) ExplainWithImage(ctx context.Context, label entity.Label, composite image.Image) service.Explanation {
	if !e.client.HasCredential() {
		return e.fallback(service.ExplanationNoCredential, label, 0, nil)
	}

	prompt := fmt.Sprintf(
		"The attached image shows two panels: Image A on the left is an ocular "+
			"conjunctiva photograph, and Image B on the right is its attention map from "+
			"an anemia classifier. The classifier assigned the class %s. In a single "+
			"paragraph, explain which regions highlighted in Image B guided the decision, "+
			"which visual features of Image A (coloration, vascularity, pallor) support "+
			"the %s classification, and how those features relate physiologically to the "+
			"presence or absence of anemia. Keep it brief, clinical, and based only on "+
			"what is observable.",
		label.DisplayName(), label.DisplayName())

	text, err := e.client.GenerateContent(ctx, prompt, composite)
	if err != nil {
		return e.fallback(e.statusFor(err), label, 0, err)
	}
	return service.ResolveExplanation(service.ExplanationGenerated, text, label, 0)
}

// ExplainWithoutImage generates a short text-only summary for the outcome
func (e *GeminiExplainer) ExplainWithoutImage(ctx context.Context, label entity.Label, confidence float64) service.Explanation {
	if !e.client.HasCredential() {
		return e.fallback(service.ExplanationNoCredential, label, confidence, nil)
	}

	prompt := fmt.Sprintf(
		"Write a brief clinical summary (2-3 sentences) of an automated anemia "+
			"screening performed on an ocular conjunctiva photograph. The classifier "+
			"result was %s with %.2f%% confidence. Explain what this finding means for "+
			"the patient and include basic recommendations. Do not mention that you are "+
			"an AI model.",
		label.DisplayName(), confidence)

	text, err := e.client.GenerateContent(ctx, prompt, nil)
	if err != nil {
		return e.fallback(e.statusFor(err), label, confidence, err)
	}
	return service.ResolveExplanation(service.ExplanationGenerated, text, label, confidence)
}

func (e *GeminiExplainer) statusFor(err error) service.ExplanationStatus {
	if errors.Is(err, ErrQuotaExceeded) {
		return service.ExplanationQuotaExceeded
	}
	return service.ExplanationServiceError
}

func (e *GeminiExplainer) fallback(status service.ExplanationStatus, label entity.Label, confidence float64, err error) service.Explanation {
	switch status {
	case service.ExplanationNoCredential:
		e.log.Debug("no generative credential configured, using fallback explanation")
	case service.ExplanationQuotaExceeded:
		e.log.Warn("generative service quota exceeded, using fallback explanation", zap.Error(err))
	default:
		e.log.Error("explanation generation failed, using fallback explanation", zap.Error(err))
	}

	if e.met != nil {
		e.met.ExplanationFallbacks.WithLabelValues(string(status)).Inc()
	}
	return service.ResolveExplanation(status, "", label, confidence)
}
