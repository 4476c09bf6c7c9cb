package matching

import (
	"context"
	"errors"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/repository"
)

// Policy decides whether a recorded reaction produces a match. It runs
// inside the same transaction as the reaction upsert, so the reciprocity
// check and the match insert are atomic.
type Policy interface {
	// OnReaction is called after the (from, to) edge has been upserted.
	// Returns the match it created, or nil.
	OnReaction(ctx context.Context, s repository.Store, fromID, toID int, polarity domain.Polarity) (*domain.Match, error)
}

// MutualLikePolicy creates a match only on a reciprocal like pair.
type MutualLikePolicy struct{}

func (MutualLikePolicy) OnReaction(ctx context.Context, s repository.Store, fromID, toID int, polarity domain.Polarity) (*domain.Match, error) {
	if polarity != domain.PolarityLike {
		return nil, nil
	}

	reverse, err := s.Reactions().Get(ctx, toID, fromID)
	if err != nil {
		return nil, err
	}
	if reverse == nil || reverse.Polarity != domain.PolarityLike {
		return nil, nil
	}

	// Mutual like. A repeated like against an existing active match must
	// not create a second one.
	_, err = s.Matches().GetActiveByUsers(ctx, fromID, toID)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, domain.ErrMatchNotFound) {
		return nil, err
	}

	match := &domain.Match{User1ID: fromID, User2ID: toID}
	if err := s.Matches().Create(ctx, match); err != nil {
		if errors.Is(err, domain.ErrMatchAlreadyExists) {
			// Lost the race to the concurrent reciprocal like.
			return nil, nil
		}
		return nil, err
	}
	return match, nil
}
