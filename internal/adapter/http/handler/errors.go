package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

// MapUsecaseError translates usecase errors into HTTP status codes and
// stable error codes for the response envelope
func MapUsecaseError(err error) (int, string, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"
	case errors.Is(err, usecase.ErrSpecialistInactive):
		return http.StatusForbidden, "ACCOUNT_INACTIVE", "The account is deactivated"
	case errors.Is(err, usecase.ErrSpecialistNotFound):
		return http.StatusNotFound, "SPECIALIST_NOT_FOUND", "Specialist not found"
	case errors.Is(err, usecase.ErrEmailTaken):
		return http.StatusConflict, "EMAIL_TAKEN", "The email is already registered"
	case errors.Is(err, usecase.ErrLicenseTaken):
		return http.StatusConflict, "LICENSE_TAKEN", "The license is already registered"
	case errors.Is(err, usecase.ErrInvalidArea):
		return http.StatusBadRequest, "INVALID_AREA", "Unknown medical area"
	case errors.Is(err, usecase.ErrEmptyUpdate):
		return http.StatusBadRequest, "EMPTY_UPDATE", "No fields to update"
	case errors.Is(err, usecase.ErrInvalidPatient):
		return http.StatusBadRequest, "INVALID_PATIENT", err.Error()
	case errors.Is(err, usecase.ErrInvalidImage):
		return http.StatusBadRequest, "INVALID_IMAGE", "The uploaded file is not a valid image"
	case errors.Is(err, usecase.ErrImageDimensions):
		return http.StatusBadRequest, "INVALID_IMAGE_DIMENSIONS", err.Error()
	case errors.Is(err, usecase.ErrRecordNotFound):
		return http.StatusNotFound, "RECORD_NOT_FOUND", "Record not found"
	case errors.Is(err, usecase.ErrInvalidCaseNumber):
		return http.StatusBadRequest, "INVALID_CASE_NUMBER", "Case number must match YYYYMMDD-XXXX"
	case errors.Is(err, usecase.ErrAnalysisFailed):
		return http.StatusServiceUnavailable, "ANALYSIS_FAILED", "The analysis could not be completed"
	case errors.Is(err, usecase.ErrCaseNumberTaken):
		return http.StatusConflict, "CASE_NUMBER_TAKEN", "The case number is already in use"
	case errors.Is(err, usecase.ErrCaseNumberConflict):
		return http.StatusConflict, "CASE_NUMBER_CONFLICT", "Could not allocate a case number, try again"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"
	}
}

func respondUsecaseError(c *gin.Context, err error) {
	status, code, message := MapUsecaseError(err)
	respondError(c, status, code, message)
}
