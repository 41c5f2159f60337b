package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

// AuthResponse carries a fresh session token and the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Service struct {
	logger *zap.Logger
	repo   Repository
	jwt    *JWTService
}

func NewService(repo Repository, jwt *JWTService, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger: logger.With(zap.String("service", "auth")),
		repo:   repo,
		jwt:    jwt,
	}
}

// Register creates a new account and returns a session token for it.
func (s *Service) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	ctx, span := otel.Tracer("auth-service").Start(ctx, "Register")
	defer span.End()

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < 8 {
		return nil, fmt.Errorf("username, email and a password of at least 8 characters are required: %w", models.ErrValidation)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.repo.CreateUser(ctx, username, email, hashed)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and returns a session token. Invalid
// credentials and unknown accounts both map to ErrUnauthenticated so the
// response does not reveal which one failed.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	ctx, span := otel.Tracer("auth-service").Start(ctx, "Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("Password mismatch during login", zap.String("user_id", user.ID.String()))
		return nil, models.ErrUnauthenticated
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// GetUser loads the account behind an authenticated session.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.GetUserByID(ctx, userID)
}
