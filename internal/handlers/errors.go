// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/akmartinez/corkboard/internal/i18n"
)

// renderError responds with a localized, user-facing error message.
// Internal error detail never reaches the client through this path.
func renderError(c echo.Context, status int, messageID string) error {
	return c.JSON(status, map[string]string{
		"error": i18n.T(c.Request().Context(), messageID),
	})
}
