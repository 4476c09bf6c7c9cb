package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leomatch/leomatch-backend/internal/notifier"
)

type recordedCall struct {
	path    string
	payload map[string]interface{}
}

func newFakeAPI(t *testing.T, reply string) (*Client, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &payload))
		calls = append(calls, recordedCall{path: r.URL.Path, payload: payload})
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	client := NewClient("TOKEN", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	return client, &calls
}

func TestSendTextWithChoices(t *testing.T) {
	client, calls := newFakeAPI(t, `{"ok":true}`)

	err := client.SendText(context.Background(), 42, "привет",
		notifier.Choice{Label: "💚 Лайк", Data: "like_1"})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/botTOKEN/sendMessage", call.path)
	assert.Equal(t, float64(42), call.payload["chat_id"])
	assert.Equal(t, "привет", call.payload["text"])
	assert.Equal(t, "HTML", call.payload["parse_mode"])
	require.Contains(t, call.payload, "reply_markup")
}

func TestSendTextWithoutChoicesOmitsMarkup(t *testing.T) {
	client, calls := newFakeAPI(t, `{"ok":true}`)

	require.NoError(t, client.SendText(context.Background(), 42, "привет"))

	require.Len(t, *calls, 1)
	assert.NotContains(t, (*calls)[0].payload, "reply_markup")
}

func TestSendPhotoAndVideoMethods(t *testing.T) {
	client, calls := newFakeAPI(t, `{"ok":true}`)
	ctx := context.Background()

	require.NoError(t, client.SendPhoto(ctx, 42, "p1", "подпись"))
	require.NoError(t, client.SendVideo(ctx, 42, "v1", "подпись"))

	require.Len(t, *calls, 2)
	assert.Equal(t, "/botTOKEN/sendPhoto", (*calls)[0].path)
	assert.Equal(t, "p1", (*calls)[0].payload["photo"])
	assert.Equal(t, "/botTOKEN/sendVideo", (*calls)[1].path)
	assert.Equal(t, "v1", (*calls)[1].payload["video"])
}

func TestSendMenuBuildsReplyKeyboard(t *testing.T) {
	client, calls := newFakeAPI(t, `{"ok":true}`)

	require.NoError(t, client.SendMenu(context.Background(), 42, "меню", notifier.MainMenuRows()))

	require.Len(t, *calls, 1)
	markup, ok := (*calls)[0].payload["reply_markup"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, markup, "keyboard")
	assert.Equal(t, true, markup["resize_keyboard"])
}

func TestAPIErrorSurfaces(t *testing.T) {
	client, _ := newFakeAPI(t, `{"ok":false,"description":"Bad Request: chat not found"}`)

	err := client.SendText(context.Background(), 42, "привет")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
