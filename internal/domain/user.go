package domain

import "time"

type UserStatus string

const (
	StatusPending UserStatus = "pending"
	StatusActive  UserStatus = "active"
	StatusPaused  UserStatus = "paused"
	StatusBanned  UserStatus = "banned"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type User struct {
	ID         int        `json:"id" db:"id"`
	TelegramID int64      `json:"telegram_id" db:"telegram_id"`
	Username   string     `json:"username" db:"username"`
	FirstName  string     `json:"first_name" db:"first_name"`
	Age        *int       `json:"age" db:"age"`
	Gender     *Gender    `json:"gender" db:"gender"`
	City       *string    `json:"city" db:"city"`
	Bio        *string    `json:"bio" db:"bio"`
	Status     UserStatus `json:"status" db:"status"`
	Verified   bool       `json:"verified" db:"verified"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// ProfileComplete reports whether the questionnaire fields have been
// committed. Registration progress itself is tracked by RegistrationState,
// not by these fields being nil.
func (u *User) ProfileComplete() bool {
	return u.Age != nil && u.Gender != nil && u.City != nil && u.Bio != nil
}
