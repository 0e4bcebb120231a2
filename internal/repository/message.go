// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/akmartinez/corkboard/internal/models"
)

// CreateMessage posts a message to the board on behalf of a user.
func (r *Repository) CreateMessage(ctx context.Context, content string, authorID int64) (*models.Message, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (content, author_id) VALUES (?, ?)`,
		content, authorID)
	if err != nil {
		return nil, wrapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var msg models.Message
	if err := r.db.GetContext(ctx, &msg, `SELECT * FROM messages WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &msg, nil
}

// ListMessages returns all board messages joined with their author's
// username, oldest first.
func (r *Repository) ListMessages(ctx context.Context) ([]models.BoardMessage, error) {
	messages := []models.BoardMessage{}
	err := r.db.SelectContext(ctx, &messages,
		`SELECT messages.id, messages.content, users.username AS author_name
		 FROM messages
		 JOIN users ON users.id = messages.author_id
		 ORDER BY messages.id`)
	if err != nil {
		return nil, err
	}
	return messages, nil
}
