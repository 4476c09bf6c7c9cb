package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/notifier"
	"github.com/leomatch/leomatch-backend/internal/repository"
)

const (
	msgFillProfileFirst = "❌ Сначала заполни анкету через /start"
	msgSearching        = "🔍 Ищем анкеты..."
	msgNoCandidates     = "😔 Пока нет новых анкет. Попробуй позже!"
	msgLikeSent         = "👍 Лайк отправлен! Если будет взаимность — мы сообщим."
	msgDislikeAck       = "👎 Понятно, ищем дальше..."
	msgMutualLike       = "💘 <b>Взаимная симпатия!</b>\n\nВы понравились друг другу! Можете начать общение."
	msgSearchStopped    = "⏸ Поиск остановлен. Твоя анкета скрыта.\n\nИспользуй /start чтобы возобновить."
	msgProfileDeleted   = "🗑 Анкета удалена. Используй /start для создания новой."
	msgProfileEmpty     = "❌ Анкета не заполнена. Используй /start"
)

// Callback payloads understood by the dispatcher.
const (
	ChoiceLikePrefix    = "like_"
	ChoiceDislikePrefix = "dislike_"
	ChoiceDeleteProfile = "delete_profile"
)

// IcebreakerSource suggests opening lines for a fresh match. Optional.
type IcebreakerSource interface {
	Icebreakers(ctx context.Context, a, b *domain.User) ([]string, error)
}

// UseCase records reactions, detects mutual likes, manages the match
// lifecycle and serves the next candidate profile.
type UseCase struct {
	store  repository.Store
	notify notifier.Notifier
	policy Policy
	ice    IcebreakerSource
	log    *zap.SugaredLogger
}

func NewUseCase(store repository.Store, notify notifier.Notifier, policy Policy, ice IcebreakerSource, log *zap.SugaredLogger) *UseCase {
	return &UseCase{store: store, notify: notify, policy: policy, ice: ice, log: log}
}

// RecordReaction upserts the reaction edge and, per the configured policy,
// creates a match. Edge upsert, reciprocity check and match insert share
// one transaction. Both parties are notified on a match; afterwards the
// reactor gets the next candidate.
func (uc *UseCase) RecordReaction(ctx context.Context, telegramID, chatID int64, toUserID int, polarity domain.Polarity) error {
	from, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.say(ctx, chatID, msgFillProfileFirst)
		return nil
	}
	if err != nil {
		return err
	}
	if from.ID == toUserID {
		return domain.ErrSelfReaction
	}

	var match *domain.Match
	err = uc.store.WithinTx(ctx, func(s repository.Store) error {
		reaction := &domain.Reaction{
			FromUserID: from.ID,
			ToUserID:   toUserID,
			Polarity:   polarity,
		}
		if err := s.Reactions().Upsert(ctx, reaction); err != nil {
			return fmt.Errorf("record reaction: %w", err)
		}
		m, err := uc.policy.OnReaction(ctx, s, from.ID, toUserID, polarity)
		if err != nil {
			return err
		}
		match = m
		return nil
	})
	if err != nil {
		return err
	}

	switch {
	case match != nil:
		uc.announceMatch(ctx, from, toUserID, chatID)
	case polarity == domain.PolarityLike:
		uc.say(ctx, chatID, msgLikeSent)
	default:
		uc.say(ctx, chatID, msgDislikeAck)
	}

	return uc.NextProfile(ctx, telegramID, chatID)
}

func (uc *UseCase) announceMatch(ctx context.Context, from *domain.User, toUserID int, chatID int64) {
	other, err := uc.store.Users().GetByID(ctx, toUserID)
	if err != nil {
		uc.log.Warnw("matched user lookup failed", "user_id", toUserID, "error", err)
		uc.say(ctx, chatID, msgMutualLike)
		return
	}

	text := msgMutualLike
	if uc.ice != nil {
		if lines, err := uc.ice.Icebreakers(ctx, from, other); err != nil {
			uc.log.Warnw("icebreakers unavailable", "error", err)
		} else if len(lines) > 0 {
			text += "\n\n💡 С чего начать:\n" + strings.Join(lines, "\n")
		}
	}

	uc.say(ctx, chatID, text)
	uc.say(ctx, other.TelegramID, text)
}

// StartSearch begins candidate browsing for an active profile.
func (uc *UseCase) StartSearch(ctx context.Context, telegramID, chatID int64) error {
	user, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.say(ctx, chatID, msgFillProfileFirst)
		return nil
	}
	if err != nil {
		return err
	}
	if user.Status != domain.StatusActive {
		uc.say(ctx, chatID, msgFillProfileFirst)
		return nil
	}

	uc.say(ctx, chatID, msgSearching)
	return uc.NextProfile(ctx, telegramID, chatID)
}

// NextProfile presents one random unseen candidate with like/dislike
// choices, or reports that none are available.
func (uc *UseCase) NextProfile(ctx context.Context, telegramID, chatID int64) error {
	user, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.say(ctx, chatID, msgFillProfileFirst)
		return nil
	}
	if err != nil {
		return err
	}

	candidate, err := uc.store.Users().RandomCandidate(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("pick candidate: %w", err)
	}
	if candidate == nil {
		uc.say(ctx, chatID, msgNoCandidates)
		return nil
	}

	assets, err := uc.store.Media().ListByUser(ctx, candidate.ID)
	if err != nil {
		return err
	}

	text := renderProfile(candidate)
	choices := []notifier.Choice{
		{Label: "❌ Дизлайк", Data: fmt.Sprintf("%s%d", ChoiceDislikePrefix, candidate.ID)},
		{Label: "💚 Лайк", Data: fmt.Sprintf("%s%d", ChoiceLikePrefix, candidate.ID)},
	}

	if len(assets) == 0 {
		uc.say(ctx, chatID, text, choices...)
		return nil
	}
	for i, asset := range assets {
		last := i == len(assets)-1
		switch asset.Kind {
		case domain.MediaPhoto:
			caption := ""
			var photoChoices []notifier.Choice
			if last {
				caption = text
				photoChoices = choices
			}
			if err := uc.notify.SendPhoto(ctx, chatID, asset.FileID, caption, photoChoices...); err != nil {
				uc.log.Warnw("send failed", "chat_id", chatID, "error", err)
			}
		case domain.MediaVideo:
			if err := uc.notify.SendVideo(ctx, chatID, asset.FileID, text, choices...); err != nil {
				uc.log.Warnw("send failed", "chat_id", chatID, "error", err)
			}
		}
	}
	return nil
}

// StopSearch pauses the profile and closes the participant's active
// matches. Both writes land in one transaction; repeating it is a no-op.
func (uc *UseCase) StopSearch(ctx context.Context, telegramID, chatID int64) error {
	user, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.say(ctx, chatID, msgFillProfileFirst)
		return nil
	}
	if err != nil {
		return err
	}

	err = uc.store.WithinTx(ctx, func(s repository.Store) error {
		if err := s.Users().UpdateStatus(ctx, user.ID, domain.StatusPaused); err != nil {
			return err
		}
		closed, err := s.Matches().CloseAllForUser(ctx, user.ID)
		if err != nil {
			return err
		}
		if closed > 0 {
			uc.log.Infow("closed active matches", "user_id", user.ID, "count", closed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.say(ctx, chatID, msgSearchStopped)
	return nil
}

// FindActiveMatch returns the participant's single active match. More than
// one active row is a data-integrity violation: the most recent wins and
// the rest are logged, never fatal.
func (uc *UseCase) FindActiveMatch(ctx context.Context, userID int) (*domain.Match, error) {
	matches, err := uc.store.Matches().GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrMatchNotFound
	}
	if len(matches) > 1 {
		uc.log.Warnw("multiple active matches", "user_id", userID, "count", len(matches))
	}
	return matches[0], nil
}

// MyProfile renders the participant's own questionnaire.
func (uc *UseCase) MyProfile(ctx context.Context, telegramID, chatID int64) error {
	user, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.say(ctx, chatID, msgProfileEmpty)
		return nil
	}
	if err != nil {
		return err
	}
	if (user.Status != domain.StatusActive && user.Status != domain.StatusPaused) || !user.ProfileComplete() {
		uc.say(ctx, chatID, msgProfileEmpty)
		return nil
	}

	statusText := "✅ Активна"
	if user.Status == domain.StatusPaused {
		statusText = "⏸ Приостановлена"
	}
	genderText := "👩 Женский"
	if *user.Gender == domain.GenderMale {
		genderText = "👨 Мужской"
	}
	text := fmt.Sprintf(
		"👤 <b>Твоя анкета</b>\n\nИмя: %s\nВозраст: %d лет\nПол: %s\nГород: %s\nО себе: %s\n\nСтатус: %s",
		user.FirstName, *user.Age, genderText, *user.City, *user.Bio, statusText,
	)
	uc.say(ctx, chatID, text, notifier.Choice{Label: "🗑 Удалить анкету", Data: ChoiceDeleteProfile})
	return nil
}

// DeleteProfile removes the participant record; dependent media, reactions,
// matches and messages cascade.
func (uc *UseCase) DeleteProfile(ctx context.Context, telegramID, chatID int64) error {
	user, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.say(ctx, chatID, msgProfileEmpty)
		return nil
	}
	if err != nil {
		return err
	}

	if err := uc.store.Users().Delete(ctx, user.ID); err != nil {
		return err
	}
	uc.say(ctx, chatID, msgProfileDeleted)
	return nil
}

func (uc *UseCase) say(ctx context.Context, chatID int64, text string, choices ...notifier.Choice) {
	if err := uc.notify.SendText(ctx, chatID, text, choices...); err != nil {
		uc.log.Warnw("send failed", "chat_id", chatID, "error", err)
	}
}

func renderProfile(user *domain.User) string {
	age := ""
	if user.Age != nil {
		age = fmt.Sprintf(", %d", *user.Age)
	}
	city := ""
	if user.City != nil {
		city = *user.City
	}
	bio := ""
	if user.Bio != nil {
		bio = *user.Bio
	}
	return fmt.Sprintf("👤 <b>%s%s</b>\n📍 %s\n\n%s", user.FirstName, age, city, bio)
}
