package domain

import "time"

type Polarity string

const (
	PolarityLike    Polarity = "like"
	PolarityDislike Polarity = "dislike"
)

// Reaction is a directed edge between participants. One row per ordered
// (from, to) pair; repeated reactions overwrite the polarity.
type Reaction struct {
	FromUserID int       `json:"from_user_id" db:"from_user_id"`
	ToUserID   int       `json:"to_user_id" db:"to_user_id"`
	Polarity   Polarity  `json:"polarity" db:"polarity"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
