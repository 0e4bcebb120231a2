// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

// Package ctxkeys defines typed context keys used across packages.
package ctxkeys

// User is the context key for the authenticated user.
type User struct{}

// CSRFToken is the context key for the CSRF token.
type CSRFToken struct{}
