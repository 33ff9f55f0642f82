package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

// SpecialistService is the profile surface consumed by the handler
type SpecialistService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*entity.Specialist, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, input usecase.UpdateProfileInput) (*entity.Specialist, error)
	GetStats(ctx context.Context, id primitive.ObjectID) (*usecase.SpecialistStats, error)
}

// SpecialistHandler handles specialist profile endpoints
type SpecialistHandler struct {
	specialists SpecialistService
}

// NewSpecialistHandler creates a new specialist handler
func NewSpecialistHandler(specialists SpecialistService) *SpecialistHandler {
	return &SpecialistHandler{specialists: specialists}
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Area      *string `json:"area"`
	Hospital  *string `json:"hospital"`
	Phone     *string `json:"phone"`
}

// GetProfile handles GET /api/v1/specialists/profile
func (h *SpecialistHandler) GetProfile(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	profile, err := h.specialists.GetProfile(c.Request.Context(), specialist.ID)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/specialists/profile
func (h *SpecialistHandler) UpdateProfile(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	input := usecase.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Hospital:  req.Hospital,
		Phone:     req.Phone,
	}
	if req.Area != nil {
		area := entity.Area(*req.Area)
		input.Area = &area
	}

	updated, err := h.specialists.UpdateProfile(c.Request.Context(), specialist.ID, input)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, updated)
}

// GetStats handles GET /api/v1/specialists/stats
func (h *SpecialistHandler) GetStats(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	stats, err := h.specialists.GetStats(c.Request.Context(), specialist.ID)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}
