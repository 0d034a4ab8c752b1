package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/femmepacker/server/internal/models"
)

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	const insertQuery = `
		INSERT INTO messages (id, sender_id, recipient_id, class, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, insertQuery,
		m.ID, m.SenderID, m.RecipientID, m.Class, m.Content, m.CreatedAt,
	); err != nil {
		return fmt.Errorf("MessageRepository.Create: %w", err)
	}
	return nil
}
