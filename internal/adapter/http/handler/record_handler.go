package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

// AnalysisService runs the detection pipeline
type AnalysisService interface {
	Analyze(ctx context.Context, imageData []byte, opts usecase.AnalyzeOptions) (*usecase.AnalysisPreview, error)
	CreateRecord(ctx context.Context, specialistID primitive.ObjectID, input usecase.CreateRecordInput) (*entity.Record, error)
}

// RecordService is the record query surface consumed by the handler
type RecordService interface {
	List(ctx context.Context, specialistID primitive.ObjectID, filter repository.RecordFilter) ([]*entity.Record, error)
	Get(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error)
	GetByCaseNumber(ctx context.Context, caseNumber string, specialistID primitive.ObjectID) (*entity.Record, error)
	Delete(ctx context.Context, id, specialistID primitive.ObjectID) error
	RegenerateExplanation(ctx context.Context, id, specialistID primitive.ObjectID) (*entity.Record, error)
}

// RecordHandler handles detection record endpoints
type RecordHandler struct {
	analysis       AnalysisService
	records        RecordService
	maxUploadBytes int64
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(analysis AnalysisService, records RecordService, maxUploadBytes int64) *RecordHandler {
	return &RecordHandler{
		analysis:       analysis,
		records:        records,
		maxUploadBytes: maxUploadBytes,
	}
}

// recordResponse wraps a record with resolvable image URLs
type recordResponse struct {
	*entity.Record
	ImageURL        string `json:"image_url,omitempty"`
	AttentionMapURL string `json:"attention_map_url,omitempty"`
}

func newRecordResponse(record *entity.Record) recordResponse {
	resp := recordResponse{Record: record}
	if record.Images.OriginalPath != "" {
		resp.ImageURL = "/uploads/" + record.Images.OriginalPath
	}
	if record.Images.AttentionMapPath != "" {
		resp.AttentionMapURL = "/uploads/" + record.Images.AttentionMapPath
	}
	return resp
}

// Analyze handles POST /api/v1/records/analyze. It classifies the image
// without persisting anything.
func (h *RecordHandler) Analyze(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_IMAGE", "An image file is required")
		return
	}

	data, _, err := readImageUpload(file, h.maxUploadBytes)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_UPLOAD", err.Error())
		return
	}

	opts := usecase.AnalyzeOptions{
		WantHeatmap:     c.PostForm("want_heatmap") == "true",
		WantExplanation: c.DefaultPostForm("want_explanation", "true") == "true",
	}

	preview, err := h.analysis.Analyze(c.Request.Context(), data, opts)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, preview)
}

// Create handles POST /api/v1/records. It expects a multipart form with
// patient fields and the conjunctiva image.
func (h *RecordHandler) Create(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	age, err := strconv.Atoi(c.PostForm("patient_age"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "patient_age must be an integer")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_IMAGE", "An image file is required")
		return
	}

	data, ext, err := readImageUpload(file, h.maxUploadBytes)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_UPLOAD", err.Error())
		return
	}

	record, err := h.analysis.CreateRecord(c.Request.Context(), specialist.ID, usecase.CreateRecordInput{
		Patient: entity.Patient{
			Name: c.PostForm("patient_name"),
			Age:  age,
			Sex:  entity.Sex(c.PostForm("patient_sex")),
		},
		CaseNumber: c.PostForm("case_number"),
		ImageData:  data,
		Extension:  ext,
	})
	if err != nil {
		respondUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, newRecordResponse(record))
}

// List handles GET /api/v1/records
func (h *RecordHandler) List(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	filter := repository.RecordFilter{
		Search: c.Query("search"),
		Skip:   queryInt64(c, "skip", 0),
		Limit:  queryInt64(c, "limit", 20),
	}
	if label := entity.Label(c.Query("label")); label != "" {
		if !label.Valid() {
			respondError(c, http.StatusBadRequest, "INVALID_LABEL", "label must be ANEMIA or NOT_ANEMIA")
			return
		}
		filter.Label = label
	}

	records, err := h.records.List(c.Request.Context(), specialist.ID, filter)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}

	responses := make([]recordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, newRecordResponse(record))
	}
	respondSuccess(c, http.StatusOK, responses)
}

// Get handles GET /api/v1/records/:id
func (h *RecordHandler) Get(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	record, err := h.records.Get(c.Request.Context(), id, specialist.ID)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, newRecordResponse(record))
}

// GetByCaseNumber handles GET /api/v1/records/case/:caseNumber
func (h *RecordHandler) GetByCaseNumber(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	record, err := h.records.GetByCaseNumber(c.Request.Context(), c.Param("caseNumber"), specialist.ID)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, newRecordResponse(record))
}

// Delete handles DELETE /api/v1/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.records.Delete(c.Request.Context(), id, specialist.ID); err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// Explain handles POST /api/v1/records/:id/explain. It regenerates the AI
// summary for an existing record.
func (h *RecordHandler) Explain(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	record, err := h.records.RegenerateExplanation(c.Request.Context(), id, specialist.ID)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, newRecordResponse(record))
}
