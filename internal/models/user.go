// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package models

import (
	"time"
)

// User is the full credential record. PasswordHash never leaves the
// repository and auth service layers.
type User struct {
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ID           int64     `db:"id" json:"id"`
}

// PublicUser is the projection handed to handlers and the request
// context. It excludes the password hash.
type PublicUser struct {
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	ID       int64  `db:"id" json:"id"`
}

// Public returns the public projection of a user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
