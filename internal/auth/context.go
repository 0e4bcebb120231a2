// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

// Package auth provides request-context identity accessors. The identity
// middleware stores the resolved user once per request; downstream code
// only reads it.
package auth

import (
	"context"

	"github.com/akmartinez/corkboard/internal/ctxkeys"
	"github.com/akmartinez/corkboard/internal/models"
)

// SetUser returns a context carrying the authenticated user.
func SetUser(ctx context.Context, user *models.PublicUser) context.Context {
	return context.WithValue(ctx, ctxkeys.User{}, user)
}

// GetUser returns the authenticated user from the context, or nil if not
// authenticated.
func GetUser(ctx context.Context) *models.PublicUser {
	if user, ok := ctx.Value(ctxkeys.User{}).(*models.PublicUser); ok {
		return user
	}
	return nil
}

// IsAuthenticated returns true if the context has an authenticated user.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}
