package registration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/notifier"
	"github.com/leomatch/leomatch-backend/internal/repository"
)

const (
	minAge = 18
	maxAge = 100
)

const (
	msgAgeNotNumeric  = "❌ Введи возраст цифрами (например: 25)"
	msgAgeOutOfRange  = "❌ Возраст должен быть от 18 до 100 лет. Попробуй еще раз:"
	msgAskGender      = "👫 <b>Выбери свой пол:</b>"
	msgAskCity        = "🏙 <b>Напиши свой город:</b>\n(например: Москва)"
	msgAskBio         = "📝 <b>Расскажи немного о себе:</b>\n(хобби, интересы, чем занимаешься)"
	msgAskPhoto       = "📸 <b>Загрузи свои фото</b> (до 2 штук)\n\nОтправь первое фото:"
	msgExpectMedia    = "📷 Пожалуйста, отправь фото или видео (не текст)"
	msgMorePhotos     = "✅ Отлично! Можешь отправить еще одно фото или перейти к видео."
	msgPhotosFull     = "У тебя уже есть 2 фото. Можешь добавить короткое видео или завершить регистрацию:"
	msgPhotoChoices   = "✅ Отлично! Можешь добавить короткое видео или завершить регистрацию:"
	msgVideoLimit     = "❌ Можно добавить только 1 видео"
	msgVideoAdded     = "✅ Видео добавлено! Теперь завершим регистрацию:"
	msgAskVideo       = "🎥 Отправь короткое видео (до 1 минуты)"
	msgStartFirst     = "Сначала начни регистрацию командой /start"
	msgFinishNotReady = "❌ Сначала закончи заполнение анкеты"
	msgDone           = "🎉 <b>Анкета создана!</b>\n\nТеперь ты можешь искать пару!"
	msgResumed        = "✅ Анкета активирована! Можешь начинать поиск."
	msgMainMenu       = "🎯 <b>Главное меню</b>\n\nВыбери действие:"
	choiceFinishLabel = "✅ Завершить"
	choiceVideoLabel  = "🎥 Добавить видео"
)

// Callback payloads understood by the dispatcher.
const (
	ChoiceFinish   = "finish_registration"
	ChoiceAddVideo = "add_video"
)

var (
	femaleTokens = []string{"жен", "👩", "female"}
	maleTokens   = []string{"муж", "👨", "male"}
)

// MediaInput is a normalized media event.
type MediaInput struct {
	Kind   domain.MediaKind
	FileID string
}

// UseCase drives a new participant through the questionnaire: age → gender
// → city → bio → media, then commits the draft and activates the profile.
type UseCase struct {
	store  repository.Store
	notify notifier.Notifier
	log    *zap.SugaredLogger
}

func NewUseCase(store repository.Store, notify notifier.Notifier, log *zap.SugaredLogger) *UseCase {
	return &UseCase{store: store, notify: notify, log: log}
}

// Start handles /start: first contact creates a pending user and opens the
// questionnaire; a paused profile is reactivated; anyone else just gets
// the menu.
func (uc *UseCase) Start(ctx context.Context, telegramID, chatID int64, username, firstName string) error {
	user, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		err = uc.store.WithinTx(ctx, func(s repository.Store) error {
			newUser := &domain.User{
				TelegramID: telegramID,
				Username:   username,
				FirstName:  firstName,
				Status:     domain.StatusPending,
				Verified:   true,
			}
			if err := s.Users().Create(ctx, newUser); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			state := &domain.RegistrationState{
				TelegramID:  telegramID,
				CurrentStep: domain.StepAge,
			}
			if err := s.Registrations().Upsert(ctx, state); err != nil {
				return fmt.Errorf("open registration: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		welcome := fmt.Sprintf("👋 Привет, %s!\n\nДобро пожаловать в <b>LeoMatch</b> — бот для знакомств!\n\nДавай создадим твою анкету. Начнем с простого:\n\n📅 <b>Напиши свой возраст</b> (например: 25)", firstName)
		uc.say(ctx, chatID, welcome)
		return nil

	case err != nil:
		return err
	}

	if user.Status == domain.StatusPaused {
		if err := uc.store.Users().UpdateStatus(ctx, user.ID, domain.StatusActive); err != nil {
			return err
		}
		uc.say(ctx, chatID, msgResumed)
	}
	uc.ShowMainMenu(ctx, chatID)
	return nil
}

// HandleText feeds a text event into the state machine. Returns false when
// no registration is in progress, in which case the caller routes the text
// to the conversation relay. The step read and the step advance share one
// transaction, so a Finish committing in between cannot be followed by a
// stale advance resurrecting the state row. Replies go out after commit.
func (uc *UseCase) HandleText(ctx context.Context, telegramID, chatID int64, text string) (bool, error) {
	handled := false
	var replies []func()
	say := func(text string, choices ...notifier.Choice) {
		replies = append(replies, func() { uc.say(ctx, chatID, text, choices...) })
	}

	err := uc.store.WithinTx(ctx, func(s repository.Store) error {
		state, err := s.Registrations().Get(ctx, telegramID)
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		handled = true

		advance := func(next domain.RegistrationStep) error {
			state.CurrentStep = next
			return s.Registrations().Upsert(ctx, state)
		}

		switch state.CurrentStep {
		case domain.StepAge:
			age, convErr := strconv.Atoi(strings.TrimSpace(text))
			if convErr != nil {
				say(msgAgeNotNumeric)
				return nil
			}
			if age < minAge || age > maxAge {
				say(msgAgeOutOfRange)
				return nil
			}
			state.Draft.Age = age
			if err := advance(domain.StepGender); err != nil {
				return err
			}
			replies = append(replies, func() {
				if sendErr := uc.notify.SendMenu(ctx, chatID, msgAskGender, [][]string{{"👨 Мужской", "👩 Женский"}}); sendErr != nil {
					uc.log.Warnw("send failed", "chat_id", chatID, "error", sendErr)
				}
			})

		case domain.StepGender:
			state.Draft.Gender = classifyGender(text)
			if err := advance(domain.StepCity); err != nil {
				return err
			}
			say(msgAskCity)

		case domain.StepCity:
			if strings.TrimSpace(text) == "" {
				say(msgAskCity)
				return nil
			}
			state.Draft.City = text
			if err := advance(domain.StepBio); err != nil {
				return err
			}
			say(msgAskBio)

		case domain.StepBio:
			if strings.TrimSpace(text) == "" {
				say(msgAskBio)
				return nil
			}
			state.Draft.Bio = text
			if err := advance(domain.StepPhoto); err != nil {
				return err
			}
			say(msgAskPhoto)

		case domain.StepPhoto, domain.StepVideo:
			say(msgExpectMedia)
		}
		return nil
	})
	if err != nil {
		return handled, err
	}

	for _, send := range replies {
		send()
	}
	return handled, nil
}

// HandleMedia accepts a photo or video during the media phase, enforcing
// the per-kind caps. Rejections leave stored media untouched.
func (uc *UseCase) HandleMedia(ctx context.Context, telegramID, chatID int64, input MediaInput) error {
	state, err := uc.store.Registrations().Get(ctx, telegramID)
	if errors.Is(err, domain.ErrRegistrationNotFound) {
		uc.say(ctx, chatID, msgStartFirst)
		return nil
	}
	if err != nil {
		return err
	}

	user, err := uc.store.Users().GetByTelegramID(ctx, telegramID)
	if err != nil {
		return err
	}

	switch {
	case input.Kind == domain.MediaPhoto && state.CurrentStep == domain.StepPhoto:
		return uc.acceptPhoto(ctx, chatID, user.ID, input.FileID)
	case input.Kind == domain.MediaVideo &&
		(state.CurrentStep == domain.StepPhoto || state.CurrentStep == domain.StepVideo):
		return uc.acceptVideo(ctx, chatID, user.ID, input.FileID)
	}
	return nil
}

func (uc *UseCase) acceptPhoto(ctx context.Context, chatID int64, userID int, fileID string) error {
	var stored int
	err := uc.store.WithinTx(ctx, func(s repository.Store) error {
		count, err := s.Media().CountByKind(ctx, userID, domain.MediaPhoto)
		if err != nil {
			return err
		}
		if count >= domain.MaxPhotos {
			return domain.ErrMediaLimitReached
		}
		asset := &domain.MediaAsset{
			UserID:   userID,
			Kind:     domain.MediaPhoto,
			FileID:   fileID,
			Position: count,
		}
		if err := s.Media().Add(ctx, asset); err != nil {
			return err
		}
		stored = count + 1
		return nil
	})
	if errors.Is(err, domain.ErrMediaLimitReached) {
		uc.say(ctx, chatID, msgPhotosFull, finishChoices()...)
		return nil
	}
	if err != nil {
		return err
	}

	if stored < domain.MaxPhotos {
		uc.say(ctx, chatID, msgMorePhotos)
	} else {
		uc.say(ctx, chatID, msgPhotoChoices, finishChoices()...)
	}
	return nil
}

func (uc *UseCase) acceptVideo(ctx context.Context, chatID int64, userID int, fileID string) error {
	err := uc.store.WithinTx(ctx, func(s repository.Store) error {
		count, err := s.Media().CountByKind(ctx, userID, domain.MediaVideo)
		if err != nil {
			return err
		}
		if count >= domain.MaxVideos {
			return domain.ErrMediaLimitReached
		}
		asset := &domain.MediaAsset{
			UserID: userID,
			Kind:   domain.MediaVideo,
			FileID: fileID,
		}
		return s.Media().Add(ctx, asset)
	})
	if errors.Is(err, domain.ErrMediaLimitReached) {
		uc.say(ctx, chatID, msgVideoLimit)
		return nil
	}
	if err != nil {
		return err
	}

	uc.say(ctx, chatID, msgVideoAdded, notifier.Choice{Label: "✅ Завершить регистрацию", Data: ChoiceFinish})
	return nil
}

// AddVideo moves the media phase to the video step. Read and write share
// one transaction for the same reason HandleText's do.
func (uc *UseCase) AddVideo(ctx context.Context, telegramID, chatID int64) error {
	var missing bool
	err := uc.store.WithinTx(ctx, func(s repository.Store) error {
		state, err := s.Registrations().Get(ctx, telegramID)
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			missing = true
			return nil
		}
		if err != nil {
			return err
		}
		state.CurrentStep = domain.StepVideo
		return s.Registrations().Upsert(ctx, state)
	})
	if err != nil {
		return err
	}
	if missing {
		uc.say(ctx, chatID, msgStartFirst)
		return nil
	}
	uc.say(ctx, chatID, msgAskVideo)
	return nil
}

// Finish commits the draft into the user record, activates the profile and
// deletes the registration state. One transaction: there is no window where
// a user is active but still registering. A finish callback replayed before
// the flow reached the media phase must not commit a half-empty draft.
func (uc *UseCase) Finish(ctx context.Context, telegramID, chatID int64) error {
	var premature bool
	err := uc.store.WithinTx(ctx, func(s repository.Store) error {
		state, err := s.Registrations().Get(ctx, telegramID)
		if err != nil {
			return err
		}
		if state.CurrentStep != domain.StepPhoto && state.CurrentStep != domain.StepVideo {
			premature = true
			return nil
		}
		user, err := s.Users().GetByTelegramID(ctx, telegramID)
		if err != nil {
			return err
		}

		draft := state.Draft
		user.Age = &draft.Age
		user.Gender = &draft.Gender
		user.City = &draft.City
		user.Bio = &draft.Bio
		user.Status = domain.StatusActive
		if err := s.Users().Update(ctx, user); err != nil {
			return fmt.Errorf("commit draft: %w", err)
		}
		return s.Registrations().Delete(ctx, telegramID)
	})
	if errors.Is(err, domain.ErrRegistrationNotFound) || errors.Is(err, domain.ErrUserNotFound) {
		uc.say(ctx, chatID, msgStartFirst)
		return nil
	}
	if err != nil {
		return err
	}
	if premature {
		uc.say(ctx, chatID, msgFinishNotReady)
		return nil
	}

	uc.say(ctx, chatID, msgDone)
	uc.ShowMainMenu(ctx, chatID)
	return nil
}

// ShowMainMenu sends the persistent menu keyboard.
func (uc *UseCase) ShowMainMenu(ctx context.Context, chatID int64) {
	if err := uc.notify.SendMenu(ctx, chatID, msgMainMenu, notifier.MainMenuRows()); err != nil {
		uc.log.Warnw("send failed", "chat_id", chatID, "error", err)
	}
}

func (uc *UseCase) say(ctx context.Context, chatID int64, text string, choices ...notifier.Choice) {
	if err := uc.notify.SendText(ctx, chatID, text, choices...); err != nil {
		uc.log.Warnw("send failed", "chat_id", chatID, "error", err)
	}
}

func finishChoices() []notifier.Choice {
	return []notifier.Choice{
		{Label: choiceFinishLabel, Data: ChoiceFinish},
		{Label: choiceVideoLabel, Data: ChoiceAddVideo},
	}
}

func classifyGender(text string) domain.Gender {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "m" {
		return domain.GenderMale
	}
	// "female" contains "male", so female markers win.
	for _, token := range femaleTokens {
		if strings.Contains(lower, token) {
			return domain.GenderFemale
		}
	}
	for _, token := range maleTokens {
		if strings.Contains(lower, token) {
			return domain.GenderMale
		}
	}
	return domain.GenderFemale
}
