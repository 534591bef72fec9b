package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akshat/notestack/internal/app/models"
	"github.com/akshat/notestack/internal/app/models/dto"
	"github.com/akshat/notestack/internal/pkg/apperrors"
	"github.com/akshat/notestack/internal/pkg/auth"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// userStore is the slice of the user repository the auth service needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	users      userStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users userStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a student account. The semester is derived from the
// academic year, never taken from the client.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	college := strings.TrimSpace(req.College)
	branch := strings.TrimSpace(req.Branch)

	if name == "" || email == "" || req.Password == "" || college == "" || branch == "" {
		return apperrors.NewValidationError("all fields are required")
	}

	if !models.ValidYear(req.Year) {
		return apperrors.ErrInvalidYear
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		College:      college,
		Branch:       branch,
		Year:         req.Year,
		Semester:     models.SemesterForYear(req.Year),
		Role:         models.RoleStudent,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("email", user.Email).Msg("User registered")
	return nil
}

// Login authenticates a user and issues a time-boxed token. Unknown email
// and wrong password both surface the same generic error.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      NewUserProfile(user),
	}, nil
}

// NewUserProfile maps a user row to its public profile.
func NewUserProfile(user *models.User) dto.UserProfile {
	return dto.UserProfile{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		College:  user.College,
		Branch:   user.Branch,
		Year:     user.Year,
		Semester: user.Semester,
		Role:     string(user.Role),
	}
}
