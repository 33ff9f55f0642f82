package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
	"github.com/adrianacoliiin/scanna-backend/internal/domain/repository"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/auth"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrLicenseTaken       = errors.New("license already registered")
	ErrInvalidArea        = errors.New("invalid medical area")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSpecialistInactive = errors.New("specialist account is inactive")
	ErrSpecialistNotFound = errors.New("specialist not found")
)

// RegisterInput carries the fields for a new specialist account
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Area      entity.Area
	License   string
	Hospital  string
	Phone     string
}

// AuthUsecase handles specialist registration and authentication
type AuthUsecase struct {
	specialists repository.SpecialistRepository
	tokens      *auth.TokenService
	log         *zap.Logger
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(specialists repository.SpecialistRepository, tokens *auth.TokenService, log *zap.Logger) *AuthUsecase {
	return &AuthUsecase{specialists: specialists, tokens: tokens, log: log}
}

// Register creates a new active specialist account. Email and license
// numbers are unique across the system.
func (uc *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*entity.Specialist, error) {
	if !entity.ValidAreas[input.Area] {
		return nil, ErrInvalidArea
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := uc.specialists.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if input.License != "" {
		if _, err := uc.specialists.GetByLicense(ctx, input.License); err == nil {
			return nil, ErrLicenseTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to check license: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	specialist := entity.NewSpecialist(input.FirstName, input.LastName, email, string(hash), input.Area)
	specialist.License = input.License
	specialist.Hospital = input.Hospital
	specialist.Phone = input.Phone

	if err := uc.specialists.Create(ctx, specialist); err != nil {
		return nil, fmt.Errorf("failed to create specialist: %w", err)
	}

	uc.log.Info("specialist registered",
		zap.String("specialist_id", specialist.ID.Hex()),
		zap.String("area", string(specialist.Area)))

	return specialist, nil
}

// Login verifies credentials and issues an access token
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, *entity.Specialist, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	specialist, err := uc.specialists.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to fetch specialist: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(specialist.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !specialist.Active {
		return "", nil, ErrSpecialistInactive
	}

	token, err := uc.tokens.Issue(specialist.ID.Hex(), specialist.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := uc.specialists.TouchLastAccess(ctx, specialist.ID); err != nil {
		uc.log.Warn("failed to record last access", zap.Error(err))
	}

	uc.log.Info("specialist logged in", zap.String("specialist_id", specialist.ID.Hex()))
	return token, specialist, nil
}

// Verify validates an access token and loads its active specialist
func (uc *AuthUsecase) Verify(ctx context.Context, token string) (*entity.Specialist, error) {
	claims, err := uc.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	id, err := primitive.ObjectIDFromHex(claims.SpecialistID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	specialist, err := uc.specialists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpecialistNotFound
		}
		return nil, fmt.Errorf("failed to fetch specialist: %w", err)
	}
	if !specialist.Active {
		return nil, ErrSpecialistInactive
	}

	return specialist, nil
}
