// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package models

import (
	"time"
)

// AuthToken binds an opaque session token to a user. The token string
// carries no embedded information; validity is row presence only.
type AuthToken struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Token     string    `db:"token" json:"token"`
	UserID    int64     `db:"user_id" json:"user_id"`
}
