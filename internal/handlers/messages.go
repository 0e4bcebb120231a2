// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/akmartinez/corkboard/internal/auth"
	"github.com/akmartinez/corkboard/internal/repository"
)

// MessageHandlers contains handlers for the shared message board.
type MessageHandlers struct {
	repo *repository.Repository
}

// NewMessages creates a new MessageHandlers instance.
func NewMessages(repo *repository.Repository) *MessageHandlers {
	return &MessageHandlers{repo: repo}
}

// List returns all board messages with their author names. Public.
func (h *MessageHandlers) List(c echo.Context) error {
	messages, err := h.repo.ListMessages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"messages": messages,
		"user":     auth.GetUser(c.Request().Context()),
	})
}

// CreateRequest is the request body for posting a message.
type CreateRequest struct {
	Message string `form:"message" json:"message"`
}

// Create posts a message. Requires an authenticated identity; the
// middleware only resolves it, enforcement happens here.
func (h *MessageHandlers) Create(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return renderError(c, http.StatusUnauthorized, "error_not_authenticated")
	}

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	if _, err := h.repo.CreateMessage(c.Request().Context(), req.Message, user.ID); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/messages")
}
