package service

import (
	"context"
	"fmt"
	"image"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
)

// ExplanationStatus classifies how an explanation was produced
type ExplanationStatus string

const (
	ExplanationGenerated     ExplanationStatus = "generated"
	ExplanationNoCredential  ExplanationStatus = "no_credential"
	ExplanationQuotaExceeded ExplanationStatus = "quota_exceeded"
	ExplanationServiceError  ExplanationStatus = "service_error"
)

// Explanation is the resolved explanation text. Text is never empty: when
// the generative call cannot complete, a deterministic fallback is
// substituted and Status records why.
type Explanation struct {
	Text   string
	Status ExplanationStatus
}

// Fallback reports whether the text came from the static fallback
func (e Explanation) Fallback() bool {
	return e.Status != ExplanationGenerated
}

// Explainer produces a medical explanation for a classification outcome.
// Implementations never return an error: every failure mode resolves to
// the fallback text for the label.
type Explainer interface {
	ExplainWithImage(ctx context.Context, label entity.Label, composite image.Image) Explanation
	ExplainWithoutImage(ctx context.Context, label entity.Label, confidence float64) Explanation
}

// ResolveExplanation turns a raw generation outcome into the final
// explanation. It is a pure function: callers decide the status from the
// transport result, and the fallback text depends only on label and
// confidence.
func ResolveExplanation(status ExplanationStatus, generated string, label entity.Label, confidence float64) Explanation {
	if status == ExplanationGenerated && generated != "" {
		return Explanation{Text: generated, Status: ExplanationGenerated}
	}
	if status == ExplanationGenerated {
		// Model returned an empty body; treat it as a service error.
		status = ExplanationServiceError
	}
	return Explanation{Text: FallbackText(label, confidence), Status: status}
}

// FallbackText returns the deterministic label-keyed explanation used when
// the generative service is unavailable, rate-limited or unconfigured.
func FallbackText(label entity.Label, confidence float64) string {
	conf := "high"
	if confidence > 0 {
		conf = fmt.Sprintf("%.2f%%", confidence)
	}

	if label == entity.LabelAnemia {
		return fmt.Sprintf(
			"AI analysis completed (confidence: %s). Signs compatible with anemia were "+
				"detected: pallor is visible in the ocular conjunctiva. The analysis suggests "+
				"complementary laboratory studies (complete blood count, iron levels, ferritin) "+
				"to confirm the diagnosis and determine the type of anemia. A hematology "+
				"consultation is recommended for detailed evaluation.", conf)
	}
	return fmt.Sprintf(
		"AI analysis completed (confidence: %s). No signs of anemia were detected: "+
			"conjunctival coloration is within the normal range. Routine check-ups and a "+
			"balanced, iron-rich diet are recommended. If symptoms such as persistent "+
			"fatigue appear, consult a specialist.", conf)
}
