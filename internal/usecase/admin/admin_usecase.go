package admin

import (
	"context"
	"fmt"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/repository"
)

const (
	usersLimit    = 100
	matchesLimit  = 50
	messagesLimit = 100
)

// UseCase backs the admin dashboard: aggregates, listings and moderation.
type UseCase struct {
	store repository.Store
	stats repository.StatsRepository
}

func NewUseCase(store repository.Store, stats repository.StatsRepository) *UseCase {
	return &UseCase{store: store, stats: stats}
}

func (uc *UseCase) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return uc.stats.Dashboard(ctx)
}

func (uc *UseCase) Users(ctx context.Context, status string) ([]*domain.User, error) {
	var filter domain.UserStatus
	if status != "" && status != "all" {
		filter = domain.UserStatus(status)
		if !validStatus(filter) {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
		}
	}
	return uc.store.Users().List(ctx, filter, usersLimit)
}

func (uc *UseCase) Matches(ctx context.Context) ([]*domain.MatchSummary, error) {
	return uc.stats.ActiveMatchSummaries(ctx, matchesLimit)
}

func (uc *UseCase) Messages(ctx context.Context, matchID *int) ([]*domain.MessageSummary, error) {
	return uc.stats.RecentMessages(ctx, matchID, messagesLimit)
}

// Moderate approves (verified + active) or rejects (banned) a user.
func (uc *UseCase) Moderate(ctx context.Context, userID int, action string) error {
	switch action {
	case "approve":
		return uc.store.WithinTx(ctx, func(s repository.Store) error {
			if err := s.Users().SetVerified(ctx, userID, true); err != nil {
				return err
			}
			return s.Users().UpdateStatus(ctx, userID, domain.StatusActive)
		})
	case "reject":
		return uc.store.Users().UpdateStatus(ctx, userID, domain.StatusBanned)
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrValidation, action)
	}
}

func (uc *UseCase) SetUserStatus(ctx context.Context, userID int, status string) error {
	s := domain.UserStatus(status)
	if !validStatus(s) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return uc.store.Users().UpdateStatus(ctx, userID, s)
}

func validStatus(s domain.UserStatus) bool {
	switch s {
	case domain.StatusPending, domain.StatusActive, domain.StatusPaused, domain.StatusBanned:
		return true
	}
	return false
}
