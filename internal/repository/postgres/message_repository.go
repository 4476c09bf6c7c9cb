package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/leomatch/leomatch-backend/internal/domain"
)

type messageRepository struct {
	ext sqlx.ExtContext
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (match_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.ext.QueryRowxContext(ctx, query,
		message.MatchID, message.SenderID, message.Body,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) ListByMatch(ctx context.Context, matchID, limit int) ([]*domain.Message, error) {
	var messages []*domain.Message
	query := `
		SELECT * FROM messages
		WHERE match_id = $1
		ORDER BY created_at
		LIMIT $2
	`
	err := sqlx.SelectContext(ctx, r.ext, &messages, query, matchID, limit)
	return messages, err
}
