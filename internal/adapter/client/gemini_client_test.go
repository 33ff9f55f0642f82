package client

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/config"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{180, 90, 60, 255})
		}
	}
	return img
}

func newTestClient(baseURL string) *GeminiClient {
	return NewGeminiClient(&config.GeminiConfig{
		APIKey:      "test-key",
		Model:       "gemini-2.5-flash",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		MaxImageDim: 64,
	})
}

func candidateBody(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":"` + text + `"}]}}]}`
}

func TestGeminiClient_GenerateContent(t *testing.T) {
	t.Run("sends prompt and returns generated text", func(t *testing.T) {
		var captured geminiRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Contains(t, r.URL.Path, "models/gemini-2.5-flash:generateContent")
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(candidateBody("pallor is visible")))
		}))
		defer server.Close()

		text, err := newTestClient(server.URL).GenerateContent(context.Background(), "explain this", nil)

		require.NoError(t, err)
		assert.Equal(t, "pallor is visible", text)
		require.Len(t, captured.Contents, 1)
		require.Len(t, captured.Contents[0].Parts, 1)
		assert.Equal(t, "explain this", captured.Contents[0].Parts[0].Text)
	})

	t.Run("attaches downsized image as inline jpeg", func(t *testing.T) {
		var captured geminiRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(candidateBody("ok")))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GenerateContent(context.Background(), "explain", testImage(256, 128))

		require.NoError(t, err)
		require.Len(t, captured.Contents[0].Parts, 2)
		inline := captured.Contents[0].Parts[1].InlineData
		require.NotNil(t, inline)
		assert.Equal(t, "image/jpeg", inline.MimeType)
		assert.NotEmpty(t, inline.Data)
	})

	t.Run("maps http 429 to quota error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GenerateContent(context.Background(), "p", nil)

		assert.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("maps RESOURCE_EXHAUSTED body to quota error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":403,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GenerateContent(context.Background(), "p", nil)

		assert.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("other api errors are not quota errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":500,"status":"INTERNAL","message":"boom"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GenerateContent(context.Background(), "p", nil)

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrQuotaExceeded)
		assert.Contains(t, err.Error(), "INTERNAL")
	})

	t.Run("empty candidate list is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GenerateContent(context.Background(), "p", nil)

		assert.Error(t, err)
	})
}

func TestDownsize(t *testing.T) {
	t.Run("shrinks oversized images preserving aspect ratio", func(t *testing.T) {
		out := downsize(testImage(2000, 1000), 1024)

		assert.Equal(t, 1024, out.Bounds().Dx())
		assert.Equal(t, 512, out.Bounds().Dy())
	})

	t.Run("portrait orientation caps the height", func(t *testing.T) {
		out := downsize(testImage(500, 2000), 1024)

		assert.Equal(t, 1024, out.Bounds().Dy())
		assert.Equal(t, 256, out.Bounds().Dx())
	})

	t.Run("images within the cap pass through unchanged", func(t *testing.T) {
		img := testImage(640, 480)
		out := downsize(img, 1024)

		assert.Same(t, img, out)
	})
}
