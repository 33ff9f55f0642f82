package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	originalsDir     = "originals"
	attentionMapsDir = "attention_maps"
)

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)
var multiDots = regexp.MustCompile(`\.+`)

// FileStore persists uploaded images under a fixed directory layout:
// <base>/originals and <base>/attention_maps. Returned paths are relative
// to the base directory so they can be served statically and stored as-is.
type FileStore struct {
	baseDir string
}

// NewFileStore creates the upload directories if they do not exist
func NewFileStore(baseDir string) (*FileStore, error) {
	for _, dir := range []string{originalsDir, attentionMapsDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// SaveOriginal stores an original image for the given case number
func (s *FileStore) SaveOriginal(caseNumber, ext string, data []byte) (string, error) {
	return s.save(originalsDir, caseNumber+ext, data)
}

// SaveAttentionMap stores a composite attention-map image for the given case number
func (s *FileStore) SaveAttentionMap(caseNumber, ext string, data []byte) (string, error) {
	return s.save(attentionMapsDir, caseNumber+"_map"+ext, data)
}

func (s *FileStore) save(dir, filename string, data []byte) (string, error) {
	filename = SanitizeFilename(filename)
	relPath := filepath.Join(dir, filename)

	if err := os.WriteFile(filepath.Join(s.baseDir, relPath), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file %s: %w", relPath, err)
	}

	return relPath, nil
}

// Path resolves a stored relative path to its absolute location
func (s *FileStore) Path(relPath string) string {
	return filepath.Join(s.baseDir, relPath)
}

// BaseDir returns the root of the upload tree
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// Delete removes a stored file. Missing files are not an error.
func (s *FileStore) Delete(relPath string) error {
	err := os.Remove(s.Path(relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", relPath, err)
	}
	return nil
}

// SanitizeFilename strips characters that are unsafe in stored filenames
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, " ", "_")
	filename = unsafeChars.ReplaceAllString(filename, "")
	filename = multiDots.ReplaceAllString(filename, ".")
	return strings.ToLower(filename)
}
