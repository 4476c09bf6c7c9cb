package repository

import (
	"context"

	"github.com/leomatch/leomatch-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	// Update commits the mutable profile fields (age, gender, city, bio,
	// status, verified) by id.
	Update(ctx context.Context, user *domain.User) error
	UpdateStatus(ctx context.Context, id int, status domain.UserStatus) error
	SetVerified(ctx context.Context, id int, verified bool) error
	// Delete removes the user and cascades dependent state.
	Delete(ctx context.Context, id int) error
	// RandomCandidate picks an unweighted random active user the requester
	// has not reacted to yet. Returns (nil, nil) when nobody is eligible.
	RandomCandidate(ctx context.Context, forUserID int) (*domain.User, error)
	List(ctx context.Context, status domain.UserStatus, limit int) ([]*domain.User, error)
}

type RegistrationRepository interface {
	Get(ctx context.Context, telegramID int64) (*domain.RegistrationState, error)
	Upsert(ctx context.Context, state *domain.RegistrationState) error
	Delete(ctx context.Context, telegramID int64) error
}

type MediaRepository interface {
	Add(ctx context.Context, asset *domain.MediaAsset) error
	CountByKind(ctx context.Context, userID int, kind domain.MediaKind) (int, error)
	ListByUser(ctx context.Context, userID int) ([]*domain.MediaAsset, error)
}

type ReactionRepository interface {
	// Upsert records the edge, overwriting polarity for a repeated
	// (from, to) pair.
	Upsert(ctx context.Context, reaction *domain.Reaction) error
	Get(ctx context.Context, fromUserID, toUserID int) (*domain.Reaction, error)
}

type MatchRepository interface {
	// Create inserts an active match for the normalized pair. Returns
	// domain.ErrMatchAlreadyExists when an active match for the pair is
	// already present.
	Create(ctx context.Context, match *domain.Match) error
	GetActiveByUsers(ctx context.Context, user1ID, user2ID int) (*domain.Match, error)
	// GetActiveByUser returns active matches most recent first. The model
	// constrains this to one row; callers seeing more should take the
	// first and warn.
	GetActiveByUser(ctx context.Context, userID int) ([]*domain.Match, error)
	// CloseAllForUser closes every active match the user is party to and
	// reports how many were closed. Idempotent.
	CloseAllForUser(ctx context.Context, userID int) (int, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByMatch(ctx context.Context, matchID, limit int) ([]*domain.Message, error)
}

// Store bundles the repositories over one backend and provides transaction
// scope. Every state transition reads its precondition and writes the new
// state inside a single WithinTx call.
type Store interface {
	Users() UserRepository
	Registrations() RegistrationRepository
	Media() MediaRepository
	Reactions() ReactionRepository
	Matches() MatchRepository
	Messages() MessageRepository
	// WithinTx runs fn against a transactional view of the store. A nested
	// call joins the ongoing transaction.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// StatsRepository serves the admin dashboard. Read-only reporting, kept off
// the transactional Store on purpose.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
	ActiveMatchSummaries(ctx context.Context, limit int) ([]*domain.MatchSummary, error)
	RecentMessages(ctx context.Context, matchID *int, limit int) ([]*domain.MessageSummary, error)
}
