package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/leomatch/leomatch-backend/internal/notifier"
)

const defaultBaseURL = "https://api.telegram.org"

// Client sends messages through the Telegram Bot API. It implements
// notifier.Notifier; delivery is fire-and-forget, callers only learn about
// transport errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithBaseURL(url string) Option {
	return func(cl *Client) { cl.baseURL = url }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ notifier.Notifier = (*Client)(nil)

type inlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineKeyboardMarkup struct {
	InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
}

type keyboardButton struct {
	Text string `json:"text"`
}

type replyKeyboardMarkup struct {
	Keyboard        [][]keyboardButton `json:"keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard"`
	OneTimeKeyboard bool               `json:"one_time_keyboard"`
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string, choices ...notifier.Choice) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if markup := inlineMarkup(choices); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", payload)
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, choices ...notifier.Choice) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"photo":      fileID,
		"caption":    caption,
		"parse_mode": "HTML",
	}
	if markup := inlineMarkup(choices); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendPhoto", payload)
}

func (c *Client) SendVideo(ctx context.Context, chatID int64, fileID, caption string, choices ...notifier.Choice) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"video":      fileID,
		"caption":    caption,
		"parse_mode": "HTML",
	}
	if markup := inlineMarkup(choices); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendVideo", payload)
}

func (c *Client) SendMenu(ctx context.Context, chatID int64, text string, rows [][]string) error {
	keyboard := make([][]keyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]keyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, keyboardButton{Text: label})
		}
		keyboard = append(keyboard, buttons)
	}
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
		"reply_markup": replyKeyboardMarkup{
			Keyboard:       keyboard,
			ResizeKeyboard: true,
		},
	}
	return c.call(ctx, "sendMessage", payload)
}

func inlineMarkup(choices []notifier.Choice) *inlineKeyboardMarkup {
	if len(choices) == 0 {
		return nil
	}
	row := make([]inlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		row = append(row, inlineKeyboardButton{Text: choice.Label, CallbackData: choice.Data})
	}
	return &inlineKeyboardMarkup{InlineKeyboard: [][]inlineKeyboardButton{row}}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if !result.OK {
		return fmt.Errorf("%s: telegram error: %s", method, result.Description)
	}
	return nil
}
