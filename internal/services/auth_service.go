package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kiosco_pos_backend/internal/models"
	"kiosco_pos_backend/internal/repositories"
	"kiosco_pos_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidRole        = errors.New("specified role not found")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterOperatorRequest DTO
type RegisterOperatorRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // "admin" or "cashier". Defaults to cashier.
}

// AuthResponse DTO
type AuthResponse struct {
	Operator     *models.Operator `json:"operator"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token,omitempty"`
}

// RefreshRequest DTO
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterOperator(req RegisterOperatorRequest) (*models.Operator, error)
	Login(req LoginRequest) (*AuthResponse, error)
	Refresh(req RefreshRequest) (*AuthResponse, error)
	GetOperatorProfile(operatorID int64) (*models.Operator, error)
}

// --- authService Implementation ---
type authService struct {
	authRepo repositories.AuthRepository
	db       *sql.DB
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, db *sql.DB) AuthService {
	return &authService{authRepo: authRepo, db: db}
}

// RegisterOperator handles the business logic for operator registration.
func (s *authService) RegisterOperator(req RegisterOperatorRequest) (*models.Operator, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	switch role {
	case "":
		role = models.RoleCashier
	case models.RoleAdmin, models.RoleCashier:
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRole, req.Role)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	operator := models.Operator{
		Username: strings.TrimSpace(req.Username),
		FullName: utils.NewNullString(req.FullName),
		Role:     role,
		IsActive: true,
	}

	createdID, err := s.authRepo.CreateOperator(s.db, &operator, string(hashedPasswordBytes))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrUsernameExists, operator.Username)
		}
		return nil, fmt.Errorf("failed to register operator: %w", err)
	}

	registered, fetchErr := s.authRepo.FindOperatorByID(createdID)
	if fetchErr != nil {
		// The row exists; return what we have rather than nothing.
		operator.ID = createdID
		return &operator, fmt.Errorf("operator registered but failed to retrieve details: %w", fetchErr)
	}
	return registered, nil
}

// Login verifies credentials and issues access and refresh tokens.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	operator, storedHash, err := s.authRepo.FindOperatorByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	// Deactivated operators are indistinguishable from bad credentials.
	if !operator.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateAccessToken(operator.ID, operator.Username, operator.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	refreshToken, err := utils.GenerateRefreshToken(operator.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	operator.PasswordHash = ""
	return &AuthResponse{
		Operator:     operator,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The operator
// row is re-read so a deactivation since login takes effect here.
func (s *authService) Refresh(req RefreshRequest) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	operator, err := s.authRepo.FindOperatorByID(claims.OperatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("refresh failed: %w", err)
	}
	if !operator.IsActive {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateAccessToken(operator.ID, operator.Username, operator.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	refreshToken, err := utils.GenerateRefreshToken(operator.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &AuthResponse{
		Operator:     operator,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetOperatorProfile retrieves an operator's profile by ID.
func (s *authService) GetOperatorProfile(operatorID int64) (*models.Operator, error) {
	operator, err := s.authRepo.FindOperatorByID(operatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("failed to retrieve operator profile: %w", err)
	}
	return operator, nil
}
