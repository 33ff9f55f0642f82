package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Run("creates directory layout", func(t *testing.T) {
		base := t.TempDir()
		_, err := NewFileStore(base)

		require.NoError(t, err)
		assert.DirExists(t, filepath.Join(base, "originals"))
		assert.DirExists(t, filepath.Join(base, "attention_maps"))
	})

	t.Run("saves and deletes original", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		relPath, err := store.SaveOriginal("20250101-AB12", ".jpg", []byte("fake image"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("originals", "20250101-ab12.jpg"), relPath)

		data, err := os.ReadFile(store.Path(relPath))
		require.NoError(t, err)
		assert.Equal(t, []byte("fake image"), data)

		require.NoError(t, store.Delete(relPath))
		assert.NoFileExists(t, store.Path(relPath))
	})

	t.Run("saves attention map with suffix", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		relPath, err := store.SaveAttentionMap("20250101-AB12", ".png", []byte{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("attention_maps", "20250101-ab12_map.png"), relPath)
	})

	t.Run("deleting missing file is not an error", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		assert.NoError(t, store.Delete("originals/nope.jpg"))
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "IMG_001.JPG", "img_001.jpg"},
		{"replaces spaces", "my photo.png", "my_photo.png"},
		{"strips unsafe characters", "a/b\\c:d*e.jpg", "abcde.jpg"},
		{"collapses dots", "evil...jpg", "evil.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}
