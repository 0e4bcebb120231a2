// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers. Handlers read the
// optional identity from the request context; enforcing authentication
// is their job, not the middleware's.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akmartinez/corkboard/internal/auth"
	"github.com/akmartinez/corkboard/internal/repository"
)

// Handlers contains the general HTTP handlers.
type Handlers struct {
	repo *repository.Repository
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home returns the landing view: the current identity, if any.
func (h *Handlers) Home(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{
		"user": user,
	})
}
