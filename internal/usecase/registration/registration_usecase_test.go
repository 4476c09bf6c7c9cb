package registration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/notifier/notifiertest"
	"github.com/leomatch/leomatch-backend/internal/repository"
	"github.com/leomatch/leomatch-backend/internal/repository/memory"
)

func newTestUseCase() (*UseCase, *memory.Store, *notifiertest.Recorder) {
	store := memory.NewStore()
	rec := notifiertest.NewRecorder()
	uc := NewUseCase(store, rec, zap.NewNop().Sugar())
	return uc, store, rec
}

func TestStartCreatesPendingUserAndOpensQuestionnaire(t *testing.T) {
	uc, store, rec := newTestUseCase()
	ctx := context.Background()

	require.NoError(t, uc.Start(ctx, 100, 100, "alice", "Алиса"))

	user, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, user.Status)
	assert.Equal(t, "Алиса", user.FirstName)

	state, err := store.Registrations().Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StepAge, state.CurrentStep)

	require.NotNil(t, rec.Last())
	assert.Contains(t, rec.Last().Text, "возраст")
}

func TestStartResumesPausedProfile(t *testing.T) {
	uc, store, rec := newTestUseCase()
	ctx := context.Background()

	user := &domain.User{TelegramID: 100, Status: domain.StatusPaused}
	require.NoError(t, store.Users().Create(ctx, user))

	require.NoError(t, uc.Start(ctx, 100, 100, "alice", "Алиса"))

	got, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)

	// No second registration is opened on resume.
	_, err = store.Registrations().Get(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)

	sent := rec.SentTo(100)
	require.NotEmpty(t, sent)
	assert.Equal(t, msgResumed, sent[0].Text)
}

func TestHandleTextWithoutRegistrationIsUnhandled(t *testing.T) {
	uc, _, _ := newTestUseCase()

	handled, err := uc.HandleText(context.Background(), 100, 100, "привет")
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestAgeValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		advance bool
		reply   string
	}{
		{"not a number", "abc", false, msgAgeNotNumeric},
		{"too young", "17", false, msgAgeOutOfRange},
		{"too old", "101", false, msgAgeOutOfRange},
		{"lower bound", "18", true, msgAskGender},
		{"upper bound", "100", true, msgAskGender},
		{"with spaces", " 25 ", true, msgAskGender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, store, rec := newTestUseCase()
			ctx := context.Background()
			require.NoError(t, uc.Start(ctx, 100, 100, "alice", "Алиса"))
			rec.Reset()

			handled, err := uc.HandleText(ctx, 100, 100, tt.input)
			require.NoError(t, err)
			assert.True(t, handled)

			state, err := store.Registrations().Get(ctx, 100)
			require.NoError(t, err)
			if tt.advance {
				assert.Equal(t, domain.StepGender, state.CurrentStep)
			} else {
				assert.Equal(t, domain.StepAge, state.CurrentStep)
			}
			require.NotNil(t, rec.Last())
			assert.Equal(t, tt.reply, rec.Last().Text)
		})
	}
}

func TestClassifyGender(t *testing.T) {
	assert.Equal(t, domain.GenderMale, classifyGender("👨 Мужской"))
	assert.Equal(t, domain.GenderMale, classifyGender("мужчина"))
	assert.Equal(t, domain.GenderMale, classifyGender("Male"))
	assert.Equal(t, domain.GenderMale, classifyGender("m"))
	assert.Equal(t, domain.GenderFemale, classifyGender("👩 Женский"))
	assert.Equal(t, domain.GenderFemale, classifyGender("female"))
	assert.Equal(t, domain.GenderFemale, classifyGender("что угодно"))
}

func TestBlankCityAndBioAreReprompted(t *testing.T) {
	uc, store, _ := newTestUseCase()
	ctx := context.Background()
	require.NoError(t, uc.Start(ctx, 100, 100, "alice", "Алиса"))

	_, err := uc.HandleText(ctx, 100, 100, "25")
	require.NoError(t, err)
	_, err = uc.HandleText(ctx, 100, 100, "👩 Женский")
	require.NoError(t, err)

	_, err = uc.HandleText(ctx, 100, 100, "   ")
	require.NoError(t, err)
	state, err := store.Registrations().Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StepCity, state.CurrentStep)

	_, err = uc.HandleText(ctx, 100, 100, "Берлин")
	require.NoError(t, err)

	_, err = uc.HandleText(ctx, 100, 100, "")
	require.NoError(t, err)
	state, err = store.Registrations().Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StepBio, state.CurrentStep)
}

func TestPhotoCap(t *testing.T) {
	uc, store, rec := newTestUseCase()
	ctx := context.Background()
	advanceToMedia(t, uc, 100)

	user, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)

	require.NoError(t, uc.HandleMedia(ctx, 100, 100, MediaInput{Kind: domain.MediaPhoto, FileID: "p1"}))
	require.NoError(t, uc.HandleMedia(ctx, 100, 100, MediaInput{Kind: domain.MediaPhoto, FileID: "p2"}))
	require.NoError(t, uc.HandleMedia(ctx, 100, 100, MediaInput{Kind: domain.MediaPhoto, FileID: "p3"}))

	count, err := store.Media().CountByKind(ctx, user.ID, domain.MediaPhoto)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPhotos, count)

	require.NotNil(t, rec.Last())
	assert.Equal(t, msgPhotosFull, rec.Last().Text)
}

func TestVideoCap(t *testing.T) {
	uc, store, rec := newTestUseCase()
	ctx := context.Background()
	advanceToMedia(t, uc, 100)
	require.NoError(t, uc.AddVideo(ctx, 100, 100))

	user, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)

	require.NoError(t, uc.HandleMedia(ctx, 100, 100, MediaInput{Kind: domain.MediaVideo, FileID: "v1"}))
	require.NoError(t, uc.HandleMedia(ctx, 100, 100, MediaInput{Kind: domain.MediaVideo, FileID: "v2"}))

	count, err := store.Media().CountByKind(ctx, user.ID, domain.MediaVideo)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxVideos, count)

	require.NotNil(t, rec.Last())
	assert.Equal(t, msgVideoLimit, rec.Last().Text)
}

func TestTextDuringMediaPhaseIsRejected(t *testing.T) {
	uc, _, rec := newTestUseCase()
	ctx := context.Background()
	advanceToMedia(t, uc, 100)
	rec.Reset()

	handled, err := uc.HandleText(ctx, 100, 100, "вот мое фото")
	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, rec.Last())
	assert.Equal(t, msgExpectMedia, rec.Last().Text)
}

func TestFinishCommitsDraftAndActivates(t *testing.T) {
	uc, store, _ := newTestUseCase()
	ctx := context.Background()
	advanceToMedia(t, uc, 100)
	require.NoError(t, uc.HandleMedia(ctx, 100, 100, MediaInput{Kind: domain.MediaPhoto, FileID: "p1"}))

	require.NoError(t, uc.Finish(ctx, 100, 100))

	user, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, user.Status)
	require.True(t, user.ProfileComplete())
	assert.Equal(t, 25, *user.Age)
	assert.Equal(t, domain.GenderFemale, *user.Gender)
	assert.Equal(t, "Берлин", *user.City)
	assert.Equal(t, "Люблю походы", *user.Bio)

	_, err = store.Registrations().Get(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)
}

func TestFinishWithoutRegistration(t *testing.T) {
	uc, _, rec := newTestUseCase()

	require.NoError(t, uc.Finish(context.Background(), 100, 100))
	require.NotNil(t, rec.Last())
	assert.Equal(t, msgStartFirst, rec.Last().Text)
}

// stateGetHook wraps a Store and fires fn once, right before the first
// Registrations().Get inside a transaction. It simulates a concurrent
// writer committing between event receipt and the state read.
type stateGetHook struct {
	repository.Store
	fn    func()
	fired bool
}

func (h *stateGetHook) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return h.Store.WithinTx(ctx, func(inner repository.Store) error {
		return fn(&hookedStore{Store: inner, hook: h})
	})
}

type hookedStore struct {
	repository.Store
	hook *stateGetHook
}

func (s *hookedStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(inner repository.Store) error {
		return fn(&hookedStore{Store: inner, hook: s.hook})
	})
}

func (s *hookedStore) Registrations() repository.RegistrationRepository {
	return &hookedRegistrations{RegistrationRepository: s.Store.Registrations(), hook: s.hook}
}

type hookedRegistrations struct {
	repository.RegistrationRepository
	hook *stateGetHook
}

func (r *hookedRegistrations) Get(ctx context.Context, telegramID int64) (*domain.RegistrationState, error) {
	if !r.hook.fired {
		r.hook.fired = true
		r.hook.fn()
	}
	return r.RegistrationRepository.Get(ctx, telegramID)
}

func TestStaleAddVideoAfterFinishDoesNotResurrectState(t *testing.T) {
	store := memory.NewStore()
	rec := notifiertest.NewRecorder()
	log := zap.NewNop().Sugar()
	ctx := context.Background()

	// Walk a user to the media phase with one photo stored.
	setup := NewUseCase(store, rec, log)
	advanceToMedia(t, setup, 100)
	require.NoError(t, setup.HandleMedia(ctx, 100, 100, MediaInput{Kind: domain.MediaPhoto, FileID: "p1"}))
	rec.Reset()

	// The finish callback commits the instant the stale add_video tap
	// reads the registration state.
	hooked := &stateGetHook{Store: store, fn: func() {
		require.NoError(t, setup.Finish(ctx, 100, 100))
	}}
	uc := NewUseCase(hooked, rec, log)

	require.NoError(t, uc.AddVideo(ctx, 100, 100))

	// Finish won: the user is active and no state row came back.
	user, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, user.Status)
	_, err = store.Registrations().Get(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)

	require.NotNil(t, rec.Last())
	assert.Equal(t, msgStartFirst, rec.Last().Text)
}

func TestFinishBeforeMediaPhaseIsRejected(t *testing.T) {
	uc, store, rec := newTestUseCase()
	ctx := context.Background()

	require.NoError(t, uc.Start(ctx, 100, 100, "alice", "Алиса"))
	_, err := uc.HandleText(ctx, 100, 100, "25")
	require.NoError(t, err)
	rec.Reset()

	require.NoError(t, uc.Finish(ctx, 100, 100))

	// Nothing committed: user still pending, draft intact, flow resumable.
	user, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, user.Status)
	assert.Nil(t, user.Age)

	state, err := store.Registrations().Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StepGender, state.CurrentStep)

	require.NotNil(t, rec.Last())
	assert.Equal(t, msgFinishNotReady, rec.Last().Text)
}

// advanceToMedia walks a fresh user through the text steps up to the
// photo step.
func advanceToMedia(t *testing.T, uc *UseCase, telegramID int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, uc.Start(ctx, telegramID, telegramID, "alice", "Алиса"))
	for _, text := range []string{"25", "👩 Женский", "Берлин", "Люблю походы"} {
		handled, err := uc.HandleText(ctx, telegramID, telegramID, text)
		require.NoError(t, err)
		require.True(t, handled)
	}
}
