// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/repository/user"
)

type AuthService struct {
	userRepo user.UserRepository
	tokens   TokenIssuer
	logger   Logger
}

func NewAuthService(userRepo user.UserRepository, tokens TokenIssuer, logger Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a regular account and returns an access token for it.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*domain.User, string, error) {
	if err := validateRegistrationInput(email, password); err != nil {
		s.logger.Warn("registration validation failed", "email", maskEmail(email), "error", err.Error())
		return nil, "", err
	}

	u := &domain.User{
		Email:    email,
		FullName: strings.TrimSpace(fullName),
		IsActive: true,
	}
	if err := u.HashPassword(password); err != nil {
		return nil, "", newValidationError(err.Error())
	}
	if err := u.IsValid(); err != nil {
		return nil, "", newValidationError(err.Error())
	}

	created, err := s.userRepo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			s.logger.Warn("registration failed - email already exists", "email", maskEmail(email))
			return nil, "", err
		}
		s.logger.Error("user creation failed", "error", err, "email", maskEmail(email))
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Generate(created.ID)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", created.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered successfully", "email", maskEmail(created.Email), "user_id", created.ID)
	return created, token, nil
}

// Login authenticates by email and password and returns an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_email", email != "",
			"has_password", password != "")
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			s.logger.Error("login lookup failed", "error", err)
			return nil, "", err
		}
		s.logger.Warn("login failed - user not found", "email", maskEmail(email))
		return nil, "", ErrInvalidCredentials
	}

	if err := u.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "email", maskEmail(email), "user_id", u.ID)
		return nil, "", ErrInvalidCredentials
	}
	if !u.IsActive {
		s.logger.Warn("login attempt by disabled user", "user_id", u.ID)
		return nil, "", ErrAccountDisabled
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", u.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "user_id", u.ID, "is_admin", u.IsAdmin)
	return u, token, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug("token validation failed", "error", err)
		return nil, ErrInvalidCredentials
	}
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return u, nil
}

// SeedAdmin creates the administrator account when it does not exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (*domain.User, bool, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, false, err
	}

	admin := &domain.User{
		Email:    email,
		FullName: "Administrator",
		IsAdmin:  true,
		IsActive: true,
	}
	if err := admin.HashPassword(password); err != nil {
		return nil, false, fmt.Errorf("admin password: %w", err)
	}
	created, err := s.userRepo.Create(ctx, admin)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("admin account seeded", "email", created.Email, "user_id", created.ID)
	return created, true, nil
}

func validateRegistrationInput(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return newValidationError("email is required")
	}
	if len(password) < domain.MinPasswordLength {
		return newValidationError("password must be at least 8 characters")
	}
	return nil
}
