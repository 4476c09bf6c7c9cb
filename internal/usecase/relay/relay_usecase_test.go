package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/notifier/notifiertest"
	"github.com/leomatch/leomatch-backend/internal/repository/memory"
)

func newTestUseCase() (*UseCase, *memory.Store, *notifiertest.Recorder) {
	store := memory.NewStore()
	rec := notifiertest.NewRecorder()
	uc := NewUseCase(store, rec, zap.NewNop().Sugar())
	return uc, store, rec
}

func seedUser(t *testing.T, store *memory.Store, telegramID int64) *domain.User {
	t.Helper()
	u := &domain.User{TelegramID: telegramID, Status: domain.StatusActive}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func TestRelayWithoutProfile(t *testing.T) {
	uc, _, rec := newTestUseCase()

	require.NoError(t, uc.Relay(context.Background(), 100, 100, "привет"))
	require.NotNil(t, rec.Last())
	assert.Equal(t, msgStartOver, rec.Last().Text)
}

func TestRelayWithoutMatchWritesNothing(t *testing.T) {
	uc, store, rec := newTestUseCase()
	ctx := context.Background()
	alice := seedUser(t, store, 100)

	require.NoError(t, uc.Relay(ctx, alice.TelegramID, 100, "привет"))

	sent := rec.SentTo(100)
	require.Len(t, sent, 1)
	assert.Equal(t, msgNoConversation, sent[0].Text)
	assert.Empty(t, rec.SentTo(200))
}

func TestRelayDeliversToCounterpartAndPersists(t *testing.T) {
	uc, store, rec := newTestUseCase()
	ctx := context.Background()
	alice := seedUser(t, store, 100)
	bob := seedUser(t, store, 200)

	match := &domain.Match{User1ID: alice.ID, User2ID: bob.ID}
	require.NoError(t, store.Matches().Create(ctx, match))

	require.NoError(t, uc.Relay(ctx, alice.TelegramID, 100, "привет, Борис"))
	require.NoError(t, uc.Relay(ctx, bob.TelegramID, 200, "привет, Алиса"))

	bobGot := rec.SentTo(200)
	require.Len(t, bobGot, 1)
	assert.Equal(t, "привет, Борис", bobGot[0].Text)

	aliceGot := rec.SentTo(100)
	require.Len(t, aliceGot, 1)
	assert.Equal(t, "привет, Алиса", aliceGot[0].Text)

	// History is append-only and ordered.
	history, err := store.Messages().ListByMatch(ctx, match.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, alice.ID, history[0].SenderID)
	assert.Equal(t, bob.ID, history[1].SenderID)
}

func TestRelayAfterMatchClosed(t *testing.T) {
	uc, store, rec := newTestUseCase()
	ctx := context.Background()
	alice := seedUser(t, store, 100)
	bob := seedUser(t, store, 200)

	match := &domain.Match{User1ID: alice.ID, User2ID: bob.ID}
	require.NoError(t, store.Matches().Create(ctx, match))
	_, err := store.Matches().CloseAllForUser(ctx, alice.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Relay(ctx, alice.TelegramID, 100, "ау"))

	assert.Equal(t, msgNoConversation, rec.Last().Text)
	assert.Empty(t, rec.SentTo(200))

	history, err := store.Messages().ListByMatch(ctx, match.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
