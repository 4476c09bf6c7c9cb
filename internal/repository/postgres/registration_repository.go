package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/leomatch/leomatch-backend/internal/domain"
)

type registrationRepository struct {
	ext sqlx.ExtContext
}

func (r *registrationRepository) Get(ctx context.Context, telegramID int64) (*domain.RegistrationState, error) {
	var state domain.RegistrationState
	// FOR UPDATE so transactional step advances serialize with a
	// concurrent Finish instead of resurrecting a deleted row.
	query := `SELECT * FROM registration_states WHERE telegram_id = $1 FOR UPDATE`
	err := sqlx.GetContext(ctx, r.ext, &state, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return &state, nil
}

func (r *registrationRepository) Upsert(ctx context.Context, state *domain.RegistrationState) error {
	query := `
		INSERT INTO registration_states (telegram_id, current_step, draft)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id) DO UPDATE
		SET current_step = EXCLUDED.current_step,
		    draft = EXCLUDED.draft,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at
	`
	return r.ext.QueryRowxContext(ctx, query,
		state.TelegramID, state.CurrentStep, state.Draft,
	).Scan(&state.UpdatedAt)
}

func (r *registrationRepository) Delete(ctx context.Context, telegramID int64) error {
	query := `DELETE FROM registration_states WHERE telegram_id = $1`
	result, err := r.ext.ExecContext(ctx, query, telegramID)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, domain.ErrRegistrationNotFound)
}
