package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
)

// allowedImageExtensions are the accepted upload file extensions
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// currentSpecialist returns the authenticated specialist set by the auth
// middleware
func currentSpecialist(c *gin.Context) (*entity.Specialist, bool) {
	value, exists := c.Get("specialist")
	if !exists {
		return nil, false
	}
	specialist, ok := value.(*entity.Specialist)
	return specialist, ok
}

// pathObjectID parses the named path parameter as an ObjectID
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Sprintf("Invalid %s", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// queryInt64 parses an integer query parameter, falling back on absence or
// garbage
func queryInt64(c *gin.Context, name string, fallback int64) int64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// readImageUpload validates and reads the uploaded image file. It checks
// the extension and size cap; pixel dimensions are validated downstream
// once the image is decoded.
func readImageUpload(file *multipart.FileHeader, maxBytes int64) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return nil, "", fmt.Errorf("unsupported file type %q (accepted: jpg, jpeg, png, webp)", ext)
	}
	if file.Size > maxBytes {
		return nil, "", fmt.Errorf("file exceeds the %d MB limit", maxBytes>>20)
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("file exceeds the %d MB limit", maxBytes>>20)
	}
	return data, ext, nil
}
