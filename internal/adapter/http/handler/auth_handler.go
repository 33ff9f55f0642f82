package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

// AuthService is the authentication surface consumed by the handler
type AuthService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*entity.Specialist, error)
	Login(ctx context.Context, email, password string) (string, *entity.Specialist, error)
	Verify(ctx context.Context, token string) (*entity.Specialist, error)
}

// AuthHandler handles registration and login endpoints
type AuthHandler struct {
	auth        AuthService
	tokenExpiry time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthService, tokenExpiry time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, tokenExpiry: tokenExpiry}
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Area      string `json:"area" binding:"required"`
	License   string `json:"license"`
	Hospital  string `json:"hospital"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token      string             `json:"token"`
	ExpiresIn  int64              `json:"expires_in"`
	Specialist *entity.Specialist `json:"specialist"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	specialist, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Area:      entity.Area(req.Area),
		License:   req.License,
		Hospital:  req.Hospital,
		Phone:     req.Phone,
	})
	if err != nil {
		respondUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, specialist)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	token, specialist, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, loginResponse{
		Token:      token,
		ExpiresIn:  int64(h.tokenExpiry.Seconds()),
		Specialist: specialist,
	})
}

// VerifyToken handles GET /api/v1/auth/verify. The auth middleware has
// already validated the token; this just echoes the resolved account.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	specialist, ok := currentSpecialist(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"valid": true, "specialist": specialist})
}
