package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/leomatch/leomatch-backend/internal/domain"
)

const uniqueViolation = "23505"

type matchRepository struct {
	ext sqlx.ExtContext
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	user1ID, user2ID := domain.NormalizePair(match.User1ID, match.User2ID)

	query := `
		INSERT INTO matches (user1_id, user2_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.ext.QueryRowxContext(ctx, query, user1ID, user2ID, domain.MatchActive).
		Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrMatchAlreadyExists
		}
		return err
	}

	match.User1ID = user1ID
	match.User2ID = user2ID
	match.Status = domain.MatchActive
	return nil
}

func (r *matchRepository) GetActiveByUsers(ctx context.Context, user1ID, user2ID int) (*domain.Match, error) {
	user1ID, user2ID = domain.NormalizePair(user1ID, user2ID)

	var match domain.Match
	query := `
		SELECT * FROM matches
		WHERE user1_id = $1 AND user2_id = $2 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := sqlx.GetContext(ctx, r.ext, &match, query, user1ID, user2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetActiveByUser(ctx context.Context, userID int) ([]*domain.Match, error) {
	var matches []*domain.Match
	query := `
		SELECT * FROM matches
		WHERE (user1_id = $1 OR user2_id = $1) AND status = 'active'
		ORDER BY created_at DESC
	`
	err := sqlx.SelectContext(ctx, r.ext, &matches, query, userID)
	return matches, err
}

func (r *matchRepository) CloseAllForUser(ctx context.Context, userID int) (int, error) {
	query := `
		UPDATE matches SET status = 'closed'
		WHERE (user1_id = $1 OR user2_id = $1) AND status = 'active'
	`
	result, err := r.ext.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
