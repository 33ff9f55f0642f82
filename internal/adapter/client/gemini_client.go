package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/config"
)

// ErrQuotaExceeded signals the remote service reported rate/quota
// exhaustion. It is expected and recoverable; callers fall back to the
// static explanation instead of failing the request.
var ErrQuotaExceeded = errors.New("generative service quota exceeded")

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// GeminiClient is an HTTP client for the Gemini generateContent endpoint
type GeminiClient struct {
	apiKey      string
	model       string
	baseURL     string
	maxImageDim int
	httpClient  *http.Client
}

// NewGeminiClient creates a new Gemini client from configuration
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		maxImageDim: cfg.MaxImageDim,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// HasCredential reports whether an API key is configured
func (c *GeminiClient) HasCredential() bool {
	return c.apiKey != ""
}

// GenerateContent sends the prompt (and optional image) to the model and
// returns the generated text. The image is downsized so neither dimension
// exceeds the configured cap before it is attached.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, img image.Image) (string, error) {
	parts := []geminiPart{{Text: prompt}}

	if img != nil {
		encoded, err := c.encodeImage(img)
		if err != nil {
			return "", fmt.Errorf("failed to encode image: %w", err)
		}
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: "image/jpeg",
			Data:     encoded,
		}})
	}

	body, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: status %d", ErrQuotaExceeded, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr geminiResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != nil {
			if apiErr.Error.Status == "RESOURCE_EXHAUSTED" {
				return "", fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Error.Message)
			}
			return "", fmt.Errorf("generative service error %d %s: %s",
				apiErr.Error.Code, apiErr.Error.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("generative service returned status %d", resp.StatusCode)
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generative service returned no candidates")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// encodeImage downsizes and JPEG-encodes the image as base64
func (c *GeminiClient) encodeImage(img image.Image) (string, error) {
	img = downsize(img, c.maxImageDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// downsize shrinks img so neither dimension exceeds maxDim, preserving
// aspect ratio. Images already within the cap pass through unchanged.
func downsize(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	ratio := float64(maxDim) / float64(w)
	if r := float64(maxDim) / float64(h); r < ratio {
		ratio = r
	}
	nw, nh := int(float64(w)*ratio), int(float64(h)*ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}
