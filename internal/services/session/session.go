// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

// Package session issues and resolves opaque auth tokens. A token is a
// random UUID stored in the auth_tokens table and handed to the client
// as a cookie; validity is determined solely by row presence.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/akmartinez/corkboard/internal/config"
	"github.com/akmartinez/corkboard/internal/models"
	"github.com/akmartinez/corkboard/internal/repository"
)

// Manager mints auth tokens, resolves them back to users and builds the
// matching cookies.
type Manager struct {
	repo       *repository.Repository
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager creates a session manager backed by the repository.
func NewManager(repo *repository.Repository, cfg *config.SessionConfig, secure bool) *Manager {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "authToken"
	}
	return &Manager{
		repo:       repo,
		cookieName: cookieName,
		maxAge:     cfg.MaxAge,
		secure:     secure,
	}
}

// Issue grants a fresh token for the user and returns it wrapped in a
// cookie. Existing tokens are neither checked nor reused; a user may
// hold any number of live sessions.
func (m *Manager) Issue(ctx context.Context, userID int64) (*http.Cookie, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := m.repo.CreateAuthToken(ctx, token.String(), userID); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	return m.cookie(token.String(), m.maxAge), nil
}

// Resolve maps the request's token cookie to a user. A missing cookie or
// an unknown token yields (nil, nil): the expected anonymous path, never
// an error. Storage failures are returned as errors so callers can
// distinguish an outage from "not logged in".
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*models.PublicUser, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	user, err := m.repo.GetUserByToken(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return user, nil
}

// Revoke deletes the token presented by the request, if any. Revoking a
// request without a cookie is a no-op.
func (m *Manager) Revoke(ctx context.Context, r *http.Request) error {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return m.repo.DeleteAuthToken(ctx, cookie.Value)
}

// Clear returns a cookie that removes the token from the client.
func (m *Manager) Clear() *http.Cookie {
	return m.cookie("", -1)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
