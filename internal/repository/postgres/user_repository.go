package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/leomatch/leomatch-backend/internal/domain"
)

type userRepository struct {
	ext sqlx.ExtContext
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (telegram_id, username, first_name, status, verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.ext.QueryRowxContext(ctx, query,
		user.TelegramID, user.Username, user.FirstName, user.Status, user.Verified,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1`
	err := sqlx.GetContext(ctx, r.ext, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE telegram_id = $1`
	err := sqlx.GetContext(ctx, r.ext, &user, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET age = $1, gender = $2, city = $3, bio = $4, status = $5, verified = $6
		WHERE id = $7
	`
	result, err := r.ext.ExecContext(ctx, query,
		user.Age, user.Gender, user.City, user.Bio, user.Status, user.Verified, user.ID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, domain.ErrUserNotFound)
}

func (r *userRepository) UpdateStatus(ctx context.Context, id int, status domain.UserStatus) error {
	query := `UPDATE users SET status = $1 WHERE id = $2`
	result, err := r.ext.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, domain.ErrUserNotFound)
}

func (r *userRepository) SetVerified(ctx context.Context, id int, verified bool) error {
	query := `UPDATE users SET verified = $1 WHERE id = $2`
	result, err := r.ext.ExecContext(ctx, query, verified, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, domain.ErrUserNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.ext.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, domain.ErrUserNotFound)
}

func (r *userRepository) RandomCandidate(ctx context.Context, forUserID int) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT u.* FROM users u
		WHERE u.id <> $1
		  AND u.status = 'active'
		  AND NOT EXISTS (
			SELECT 1 FROM reactions r
			WHERE r.from_user_id = $1 AND r.to_user_id = u.id
		  )
		ORDER BY RANDOM()
		LIMIT 1
	`
	err := sqlx.GetContext(ctx, r.ext, &user, query, forUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Nobody eligible is not an error.
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, status domain.UserStatus, limit int) ([]*domain.User, error) {
	var users []*domain.User
	if status == "" {
		query := `SELECT * FROM users ORDER BY created_at DESC LIMIT $1`
		err := sqlx.SelectContext(ctx, r.ext, &users, query, limit)
		return users, err
	}
	query := `SELECT * FROM users WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
	err := sqlx.SelectContext(ctx, r.ext, &users, query, status, limit)
	return users, err
}

func requireRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
