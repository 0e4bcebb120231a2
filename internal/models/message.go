// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package models

import (
	"time"
)

// Message is a row on the shared message board.
type Message struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Content   string    `db:"content" json:"content"`
	ID        int64     `db:"id" json:"id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
}

// BoardMessage is a message joined with its author's username, as
// listed on the board.
type BoardMessage struct {
	Content    string `db:"content" json:"content"`
	AuthorName string `db:"author_name" json:"author_name"`
	ID         int64  `db:"id" json:"id"`
}
