// Package notifiertest provides a recording Notifier for use case tests.
package notifiertest

import (
	"context"
	"sync"

	"github.com/leomatch/leomatch-backend/internal/notifier"
)

type Sent struct {
	ChatID  int64
	Kind    string // text, photo, video, menu
	Text    string
	FileID  string
	Choices []notifier.Choice
	Rows    [][]string
}

// Recorder captures every delivery instead of sending it.
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SendText(_ context.Context, chatID int64, text string, choices ...notifier.Choice) error {
	r.record(Sent{ChatID: chatID, Kind: "text", Text: text, Choices: choices})
	return nil
}

func (r *Recorder) SendPhoto(_ context.Context, chatID int64, fileID, caption string, choices ...notifier.Choice) error {
	r.record(Sent{ChatID: chatID, Kind: "photo", Text: caption, FileID: fileID, Choices: choices})
	return nil
}

func (r *Recorder) SendVideo(_ context.Context, chatID int64, fileID, caption string, choices ...notifier.Choice) error {
	r.record(Sent{ChatID: chatID, Kind: "video", Text: caption, FileID: fileID, Choices: choices})
	return nil
}

func (r *Recorder) SendMenu(_ context.Context, chatID int64, text string, rows [][]string) error {
	r.record(Sent{ChatID: chatID, Kind: "menu", Text: text, Rows: rows})
	return nil
}

func (r *Recorder) record(s Sent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, s)
}

// All returns everything recorded so far.
func (r *Recorder) All() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}

// SentTo returns deliveries addressed to one chat.
func (r *Recorder) SentTo(chatID int64) []Sent {
	var out []Sent
	for _, s := range r.All() {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

// Last returns the most recent delivery, or nil.
func (r *Recorder) Last() *Sent {
	all := r.All()
	if len(all) == 0 {
		return nil
	}
	return &all[len(all)-1]
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
