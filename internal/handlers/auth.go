// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	authctx "github.com/akmartinez/corkboard/internal/auth"
	"github.com/akmartinez/corkboard/internal/services/auth"
	"github.com/akmartinez/corkboard/internal/services/email"
	"github.com/akmartinez/corkboard/internal/services/session"
)

// AuthHandlers contains handlers for registration, login and logout.
type AuthHandlers struct {
	auth     *auth.Service
	sessions *session.Manager
	mailer   *email.Service // nil when SMTP is not configured
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(authService *auth.Service, sessions *session.Manager, mailer *email.Service) *AuthHandlers {
	return &AuthHandlers{
		auth:     authService,
		sessions: sessions,
		mailer:   mailer,
	}
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Register creates a new account and logs the client in. Duplicate
// email or username is a 409 and leaves the cookie untouched.
func (h *AuthHandlers) Register(c echo.Context) error {
	if authctx.IsAuthenticated(c.Request().Context()) {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, http.StatusBadRequest, "error_missing_fields")
	}

	ctx := c.Request().Context()
	user, err := h.auth.Register(ctx, auth.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			return renderError(c, http.StatusConflict, "error_user_exists")
		case errors.Is(err, auth.ErrInvalidEmail):
			return renderError(c, http.StatusBadRequest, "error_invalid_email")
		case errors.Is(err, auth.ErrMissingFields):
			return renderError(c, http.StatusBadRequest, "error_missing_fields")
		}
		return err
	}

	cookie, err := h.sessions.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	if h.mailer != nil {
		if mailErr := h.mailer.SendWelcome(ctx, user.Email, user.Username); mailErr != nil {
			slog.Warn("welcome_email_failed", "user_id", user.ID, "error", mailErr)
		}
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password produce the identical response.
func (h *AuthHandlers) Login(c echo.Context) error {
	if authctx.IsAuthenticated(c.Request().Context()) {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, http.StatusUnauthorized, "error_invalid_credentials")
	}

	ctx := c.Request().Context()
	user, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return renderError(c, http.StatusUnauthorized, "error_invalid_credentials")
		}
		return err
	}

	cookie, err := h.sessions.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout revokes the presented token and clears the cookie. Idempotent:
// an anonymous logout still redirects home.
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if user := authctx.GetUser(ctx); user != nil {
		if err := h.sessions.Revoke(ctx, c.Request()); err != nil {
			return err
		}
		c.SetCookie(h.sessions.Clear())
		slog.Info("logout", "user_id", user.ID, "username", user.Username)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}
