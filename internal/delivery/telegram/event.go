package telegram

// Wire shapes of the Telegram webhook payload, limited to the fields the
// bot consumes.

type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type Message struct {
	MessageID int64       `json:"message_id"`
	From      *User       `json:"from"`
	Chat      Chat        `json:"chat"`
	Text      string      `json:"text"`
	Photo     []PhotoSize `json:"photo"`
	Video     *Video      `json:"video"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type PhotoSize struct {
	FileID string `json:"file_id"`
}

type Video struct {
	FileID string `json:"file_id"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Data    string   `json:"data"`
	Message *Message `json:"message"`
}

type EventKind string

const (
	EventText   EventKind = "text"
	EventPhoto  EventKind = "photo"
	EventVideo  EventKind = "video"
	EventChoice EventKind = "choice"
)

// Event is the normalized inbound shape the core consumes.
type Event struct {
	UpdateID  int64
	SenderID  int64
	ChatID    int64
	Username  string
	FirstName string
	Kind      EventKind
	Text      string
	FileID    string
	Choice    string
}

// Normalize flattens an update into an Event. Returns false for updates
// the bot does not act on.
func Normalize(update *Update) (*Event, bool) {
	if cb := update.CallbackQuery; cb != nil && cb.From != nil && cb.Message != nil {
		return &Event{
			UpdateID:  update.UpdateID,
			SenderID:  cb.From.ID,
			ChatID:    cb.Message.Chat.ID,
			Username:  cb.From.Username,
			FirstName: cb.From.FirstName,
			Kind:      EventChoice,
			Choice:    cb.Data,
		}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil, false
	}

	ev := &Event{
		UpdateID:  update.UpdateID,
		SenderID:  msg.From.ID,
		ChatID:    msg.Chat.ID,
		Username:  msg.From.Username,
		FirstName: msg.From.FirstName,
	}
	switch {
	case len(msg.Photo) > 0:
		ev.Kind = EventPhoto
		// The last size is the largest rendition.
		ev.FileID = msg.Photo[len(msg.Photo)-1].FileID
	case msg.Video != nil:
		ev.Kind = EventVideo
		ev.FileID = msg.Video.FileID
	case msg.Text != "":
		ev.Kind = EventText
		ev.Text = msg.Text
	default:
		return nil, false
	}
	return ev, true
}
