package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

func authRouter(svc AuthService) *gin.Engine {
	h := NewAuthHandler(svc, 30*time.Minute)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/verify", withSpecialist(), h.VerifyToken)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	valid := gin.H{
		"first_name": "Ana",
		"last_name":  "Reyes",
		"email":      "ana@hospital.test",
		"password":   "s3cret-pass",
		"area":       "Hematology",
	}

	t.Run("creates the account", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Register", mock.Anything, mock.AnythingOfType("usecase.RegisterInput")).
			Return(testSpecialist, nil)

		w := postJSON(t, authRouter(svc), "/auth/register", valid)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("missing fields fail binding", func(t *testing.T) {
		svc := new(mockAuthService)
		w := postJSON(t, authRouter(svc), "/auth/register", gin.H{"email": "a@b.test"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email maps to 409", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, usecase.ErrEmailTaken)

		w := postJSON(t, authRouter(svc), "/auth/register", valid)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "EMAIL_TAKEN", decodeResponse(t, w).Error.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns the token and expiry", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Login", mock.Anything, "ana@hospital.test", "pw-123456").
			Return("jwt-token", testSpecialist, nil)

		w := postJSON(t, authRouter(svc), "/auth/login", gin.H{
			"email":    "ana@hospital.test",
			"password": "pw-123456",
		})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "jwt-token", data["token"])
		assert.Equal(t, float64(1800), data["expires_in"])
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return("", nil, usecase.ErrInvalidCredentials)

		w := postJSON(t, authRouter(svc), "/auth/login", gin.H{
			"email":    "ana@hospital.test",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	w := httptest.NewRecorder()
	authRouter(new(mockAuthService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/verify", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["valid"])
}
