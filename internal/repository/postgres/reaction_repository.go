package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/leomatch/leomatch-backend/internal/domain"
)

type reactionRepository struct {
	ext sqlx.ExtContext
}

func (r *reactionRepository) Upsert(ctx context.Context, reaction *domain.Reaction) error {
	query := `
		INSERT INTO reactions (from_user_id, to_user_id, polarity)
		VALUES ($1, $2, $3)
		ON CONFLICT (from_user_id, to_user_id) DO UPDATE
		SET polarity = EXCLUDED.polarity
		RETURNING created_at
	`
	return r.ext.QueryRowxContext(ctx, query,
		reaction.FromUserID, reaction.ToUserID, reaction.Polarity,
	).Scan(&reaction.CreatedAt)
}

func (r *reactionRepository) Get(ctx context.Context, fromUserID, toUserID int) (*domain.Reaction, error) {
	var reaction domain.Reaction
	query := `SELECT * FROM reactions WHERE from_user_id = $1 AND to_user_id = $2`
	err := sqlx.GetContext(ctx, r.ext, &reaction, query, fromUserID, toUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}
