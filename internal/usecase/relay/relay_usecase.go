package relay

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/notifier"
	"github.com/leomatch/leomatch-backend/internal/repository"
)

const (
	msgNoConversation = "💬 У тебя нет активного диалога. Найди пару через меню!"
	msgStartOver      = "❌ Сначала заполни анкету через /start"
)

// UseCase forwards free text between the two parties of an active match,
// persisting every message.
type UseCase struct {
	store  repository.Store
	notify notifier.Notifier
	log    *zap.SugaredLogger
}

func NewUseCase(store repository.Store, notify notifier.Notifier, log *zap.SugaredLogger) *UseCase {
	return &UseCase{store: store, notify: notify, log: log}
}

// Relay persists the text against the sender's active match and delivers
// it verbatim to the counterpart. Without an active match nothing is
// written and only the sender is notified.
func (uc *UseCase) Relay(ctx context.Context, telegramID, chatID int64, text string) error {
	sender, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.say(ctx, chatID, msgStartOver)
		return nil
	}
	if err != nil {
		return err
	}

	var counterpart *domain.User
	err = uc.store.WithinTx(ctx, func(s repository.Store) error {
		matches, err := s.Matches().GetActiveByUser(ctx, sender.ID)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return nil
		}
		if len(matches) > 1 {
			uc.log.Warnw("multiple active matches", "user_id", sender.ID, "count", len(matches))
		}
		match := matches[0]

		message := &domain.Message{
			MatchID:  match.ID,
			SenderID: sender.ID,
			Body:     text,
		}
		if err := s.Messages().Create(ctx, message); err != nil {
			return fmt.Errorf("persist message: %w", err)
		}

		otherID, _ := match.OtherUserID(sender.ID)
		other, err := s.Users().GetByID(ctx, otherID)
		if err != nil {
			return fmt.Errorf("resolve counterpart: %w", err)
		}
		counterpart = other
		return nil
	})
	if err != nil {
		return err
	}

	if counterpart == nil {
		uc.say(ctx, chatID, msgNoConversation)
		return nil
	}

	uc.say(ctx, counterpart.TelegramID, text)
	return nil
}

func (uc *UseCase) say(ctx context.Context, chatID int64, text string, choices ...notifier.Choice) {
	if err := uc.notify.SendText(ctx, chatID, text, choices...); err != nil {
		uc.log.Warnw("send failed", "chat_id", chatID, "error", err)
	}
}
