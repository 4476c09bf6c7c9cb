package domain

import "time"

// Message belongs to exactly one match. Append-only: never edited or
// deleted by the relay.
type Message struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	SenderID  int       `json:"sender_id" db:"sender_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
