// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/akmartinez/corkboard/internal/models"
)

// CreateAuthToken binds an opaque token to a user. Multiple live tokens
// per user are allowed.
func (r *Repository) CreateAuthToken(ctx context.Context, token string, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, user_id) VALUES (?, ?)`,
		token, userID)
	return wrapError(err)
}

// GetUserByToken resolves a token to the public projection of its user.
// Returns ErrNotFound for tokens that were never issued or have been
// revoked; callers treat that as the anonymous path, not a failure.
func (r *Repository) GetUserByToken(ctx context.Context, token string) (*models.PublicUser, error) {
	var user models.PublicUser
	err := r.db.GetContext(ctx, &user,
		`SELECT users.id, users.username, users.email
		 FROM auth_tokens
		 JOIN users ON users.id = auth_tokens.user_id
		 WHERE auth_tokens.token = ?`, token)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// DeleteAuthToken revokes a token server-side. Deleting an unknown token
// is not an error.
func (r *Repository) DeleteAuthToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = ?`, token)
	return wrapError(err)
}

// CountUserTokens counts the live tokens held by a user.
func (r *Repository) CountUserTokens(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count,
		`SELECT count(*) FROM auth_tokens WHERE user_id = ?`, userID); err != nil {
		return 0, err
	}
	return count, nil
}
