package telegram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/notifier"
	"github.com/leomatch/leomatch-backend/internal/notifier/notifiertest"
	"github.com/leomatch/leomatch-backend/internal/repository/memory"
	"github.com/leomatch/leomatch-backend/internal/usecase/matching"
	"github.com/leomatch/leomatch-backend/internal/usecase/registration"
	"github.com/leomatch/leomatch-backend/internal/usecase/relay"
)

func newTestDispatcher() (*Dispatcher, *memory.Store, *notifiertest.Recorder) {
	store := memory.NewStore()
	rec := notifiertest.NewRecorder()
	log := zap.NewNop().Sugar()

	regUC := registration.NewUseCase(store, rec, log)
	matchUC := matching.NewUseCase(store, rec, matching.MutualLikePolicy{}, nil, log)
	relayUC := relay.NewUseCase(store, rec, log)

	return NewDispatcher(regUC, matchUC, relayUC, rec, nil, log), store, rec
}

func textUpdate(id, from int64, text string) *Update {
	return &Update{
		UpdateID: id,
		Message: &Message{
			From: &User{ID: from, Username: "u", FirstName: "Имя"},
			Chat: Chat{ID: from},
			Text: text,
		},
	}
}

func choiceUpdate(id, from int64, data string) *Update {
	return &Update{
		UpdateID: id,
		CallbackQuery: &CallbackQuery{
			ID:      "cb",
			From:    &User{ID: from, Username: "u", FirstName: "Имя"},
			Data:    data,
			Message: &Message{Chat: Chat{ID: from}},
		},
	}
}

func TestFullRegistrationFlowOverUpdates(t *testing.T) {
	d, store, _ := newTestDispatcher()
	ctx := context.Background()

	updates := []*Update{
		textUpdate(1, 100, "/start"),
		textUpdate(2, 100, "25"),
		textUpdate(3, 100, "👨 Мужской"),
		textUpdate(4, 100, "Казань"),
		textUpdate(5, 100, "Играю на гитаре"),
		{UpdateID: 6, Message: &Message{
			From:  &User{ID: 100},
			Chat:  Chat{ID: 100},
			Photo: []PhotoSize{{FileID: "p1"}},
		}},
		choiceUpdate(7, 100, registration.ChoiceFinish),
	}
	for _, u := range updates {
		require.NoError(t, d.HandleUpdate(ctx, u))
	}

	user, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, user.Status)
	require.True(t, user.ProfileComplete())
	assert.Equal(t, domain.GenderMale, *user.Gender)
	assert.Equal(t, "Казань", *user.City)
}

func TestMenuLabelsRoute(t *testing.T) {
	d, store, rec := newTestDispatcher()
	ctx := context.Background()

	age := 30
	gender := domain.GenderMale
	city := "Сочи"
	bio := "бег"
	require.NoError(t, store.Users().Create(ctx, &domain.User{
		TelegramID: 100, FirstName: "Имя", Age: &age, Gender: &gender,
		City: &city, Bio: &bio, Status: domain.StatusActive,
	}))

	require.NoError(t, d.HandleUpdate(ctx, textUpdate(1, 100, notifier.MenuMyProfile)))
	require.NotNil(t, rec.Last())
	assert.Contains(t, rec.Last().Text, "Твоя анкета")

	require.NoError(t, d.HandleUpdate(ctx, textUpdate(2, 100, notifier.MenuStopSearch)))
	user, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaused, user.Status)
}

func TestLikeCallbackRecordsReaction(t *testing.T) {
	d, store, _ := newTestDispatcher()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &domain.User{TelegramID: 100, Status: domain.StatusActive}))
	target := &domain.User{TelegramID: 200, Status: domain.StatusActive}
	require.NoError(t, store.Users().Create(ctx, target))

	require.NoError(t, d.HandleUpdate(ctx, choiceUpdate(1, 100, "like_2")))

	from, err := store.Users().GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	reaction, err := store.Reactions().Get(ctx, from.ID, target.ID)
	require.NoError(t, err)
	require.NotNil(t, reaction)
	assert.Equal(t, domain.PolarityLike, reaction.Polarity)
}

func TestMalformedCallbackIsSwallowed(t *testing.T) {
	d, _, _ := newTestDispatcher()

	require.NoError(t, d.HandleUpdate(context.Background(), choiceUpdate(1, 100, "like_abc")))
	require.NoError(t, d.HandleUpdate(context.Background(), choiceUpdate(2, 100, "totally_unknown")))
}

func TestFreeTextFallsThroughToRelay(t *testing.T) {
	d, store, rec := newTestDispatcher()
	ctx := context.Background()

	alice := &domain.User{TelegramID: 100, Status: domain.StatusActive}
	bob := &domain.User{TelegramID: 200, Status: domain.StatusActive}
	require.NoError(t, store.Users().Create(ctx, alice))
	require.NoError(t, store.Users().Create(ctx, bob))
	require.NoError(t, store.Matches().Create(ctx, &domain.Match{User1ID: alice.ID, User2ID: bob.ID}))

	require.NoError(t, d.HandleUpdate(ctx, textUpdate(1, 100, "как дела?")))

	got := rec.SentTo(200)
	require.Len(t, got, 1)
	assert.Equal(t, "как дела?", got[0].Text)
}
