// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

// Package auth implements credential verification: registration with
// hashed passwords and login with anti-enumeration semantics.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/akmartinez/corkboard/internal/models"
	"github.com/akmartinez/corkboard/internal/repository"
)

var (
	// ErrUserExists is returned when the email or username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the two must stay indistinguishable to the client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidEmail is returned for malformed email addresses.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrMissingFields is returned when a required form field is empty.
	ErrMissingFields = errors.New("username, email and password are required")
)

// Service verifies credentials against the repository.
type Service struct {
	repo *repository.Repository
}

// NewService creates a new auth service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// RegisterParams holds the parameters for user registration.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user account with a hashed password.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	if params.Username == "" || params.Email == "" || params.Password == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, ErrInvalidEmail
	}

	passwordHash, err := HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, params.Username, params.Email, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login authenticates a user by email and password. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			burnVerification(password)
			slog.Warn("login_failed", "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		slog.Warn("login_failed", "user_id", user.ID, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.Info("login_success", "user_id", user.ID)
	return user, nil
}
