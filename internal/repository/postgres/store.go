package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/leomatch/leomatch-backend/internal/repository"
)

// Store implements repository.Store over sqlx. A Store built from a *sqlx.DB
// opens real transactions; the store handed to WithinTx callbacks is bound
// to the transaction and joins it on nested calls.
type Store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, ext: db}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{ext: s.ext}
}

func (s *Store) Registrations() repository.RegistrationRepository {
	return &registrationRepository{ext: s.ext}
}

func (s *Store) Media() repository.MediaRepository {
	return &mediaRepository{ext: s.ext}
}

func (s *Store) Reactions() repository.ReactionRepository {
	return &reactionRepository{ext: s.ext}
}

func (s *Store) Matches() repository.MatchRepository {
	return &matchRepository{ext: s.ext}
}

func (s *Store) Messages() repository.MessageRepository {
	return &messageRepository{ext: s.ext}
}

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		// Already transactional.
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&Store{ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
