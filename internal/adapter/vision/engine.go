package vision

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/service"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/config"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/metrics"
)

// Expected graph interface of the exported checkpoint. The ViT export
// stacks all per-layer attentions into a single output tensor shaped
// [layers, heads, tokens, tokens].
const (
	inputPixelValues = "pixel_values"
	outputLogits     = "logits"
	outputAttentions = "attentions"
)

// classLabels maps logit index to label, in checkpoint order
var classLabels = [2]entity.Label{entity.LabelAnemia, entity.LabelNotAnemia}

// Engine runs the anemia classifier through ONNX Runtime. One engine is
// constructed at startup and shared by all requests; the loaded model is
// read-only, but forward passes are serialized because the session is not
// guaranteed to be safe for concurrent Run calls.
type Engine struct {
	cfg     config.ModelConfig
	session *ort.DynamicAdvancedSession
	log     *zap.Logger
	met     *metrics.Metrics
	mu      sync.Mutex
}

// NewEngine loads the model checkpoint. A missing or unreadable checkpoint
// wraps service.ErrModelLoad and is fatal to the caller.
func NewEngine(cfg config.ModelConfig, log *zap.Logger, met *metrics.Metrics) (*Engine, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("%w: checkpoint %s: %v", service.ErrModelLoad, cfg.Path, err)
	}

	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: onnxruntime init: %v", service.ErrModelLoad, err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.Path,
		[]string{inputPixelValues},
		[]string{outputLogits, outputAttentions},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrModelLoad, err)
	}

	log.Info("classification model loaded",
		zap.String("path", cfg.Path),
		zap.Int("input_size", cfg.InputSize))

	return &Engine{cfg: cfg, session: session, log: log, met: met}, nil
}

// Close releases the ONNX session
func (e *Engine) Close() {
	if e.session != nil {
		_ = e.session.Destroy()
	}
}

// Classify implements service.Classifier
func (e *Engine) Classify(ctx context.Context, img image.Image, wantHeatmap bool) (*service.ClassificationResult, image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	input, err := ort.NewTensor(
		ort.NewShape(1, 3, int64(e.cfg.InputSize), int64(e.cfg.InputSize)),
		ToTensor(img, e.cfg.InputSize),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: input tensor: %v", service.ErrInference, err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil, nil}
	start := time.Now()
	e.mu.Lock()
	err = e.session.Run([]ort.Value{input}, outputs)
	e.mu.Unlock()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", service.ErrInference, err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				_ = out.Destroy()
			}
		}
	}()

	logitsTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, nil, fmt.Errorf("%w: unexpected logits output type", service.ErrInference)
	}
	logits := logitsTensor.GetData()
	if len(logits) != len(classLabels) {
		return nil, nil, fmt.Errorf("%w: expected %d logits, got %d", service.ErrInference, len(classLabels), len(logits))
	}

	result := resultFromLogits(logits)

	if e.met != nil {
		e.met.PredictionsTotal.WithLabelValues(string(result.Label)).Inc()
		e.met.PredictionDuration.Observe(time.Since(start).Seconds())
	}
	e.log.Info("prediction complete",
		zap.String("label", string(result.Label)),
		zap.Float64("confidence", result.Confidence))

	if !wantHeatmap {
		return result, nil, nil
	}

	return result, e.renderComposite(outputs[1], img), nil
}

// renderComposite decodes the stacked attention output and renders the
// side-by-side heatmap composite. Heatmap construction is best-effort: any
// failure is logged and the unmodified original image is returned instead.
func (e *Engine) renderComposite(attOutput ort.Value, original image.Image) image.Image {
	att, err := e.decodeAttentions(attOutput)
	if err == nil {
		var composite image.Image
		composite, err = RenderHeatmap(att, original, HeatmapOptions{
			Layer:          e.cfg.AttentionLayer,
			Head:           e.cfg.AttentionHead,
			ReferencePatch: e.cfg.ReferencePatch,
			GridSize:       e.cfg.PatchGridSize,
			BlendAlpha:     e.cfg.BlendAlpha,
		})
		if err == nil {
			return composite
		}
	}

	e.log.Warn("heatmap generation failed, returning original image", zap.Error(err))
	if e.met != nil {
		e.met.HeatmapFailures.Inc()
	}
	return original
}

func (e *Engine) decodeAttentions(out ort.Value) (*AttentionTensor, error) {
	tensor, ok := out.(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected attention output type")
	}

	shape := tensor.GetShape()
	if len(shape) != 4 || shape[2] != shape[3] {
		return nil, fmt.Errorf("unexpected attention shape %v", shape)
	}

	return NewAttentionTensor(int(shape[0]), int(shape[1]), int(shape[2]), tensor.GetData())
}

// resultFromLogits applies a softmax over the two logits. Confidence is
// the argmax probability as a percentage rounded to 2 decimal places;
// the probability map keeps full-precision fractions summing to 1.
func resultFromLogits(logits []float32) *service.ClassificationResult {
	probs := softmax(logits)

	argmax := 0
	for i, p := range probs {
		if p > probs[argmax] {
			argmax = i
		}
	}

	probabilities := make(map[entity.Label]float64, len(classLabels))
	for i, label := range classLabels {
		probabilities[label] = probs[i]
	}

	return &service.ClassificationResult{
		Label:         classLabels[argmax],
		Confidence:    math.Round(probs[argmax]*100*100) / 100,
		Probabilities: probabilities,
	}
}

// softmax is computed against the max logit for numerical stability
func softmax(logits []float32) []float64 {
	max := logits[0]
	for _, l := range logits[1:] {
		if l > max {
			max = l
		}
	}

	exps := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		exps[i] = math.Exp(float64(l - max))
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}
