package domain

import "time"

type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// Per-participant caps enforced by the media collector.
const (
	MaxPhotos = 2
	MaxVideos = 1
)

type MediaAsset struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Kind      MediaKind `json:"kind" db:"kind"`
	FileID    string    `json:"file_id" db:"file_id"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
