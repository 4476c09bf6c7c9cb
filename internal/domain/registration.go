package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type RegistrationStep string

const (
	StepAge    RegistrationStep = "age"
	StepGender RegistrationStep = "gender"
	StepCity   RegistrationStep = "city"
	StepBio    RegistrationStep = "bio"
	StepPhoto  RegistrationStep = "photo"
	StepVideo  RegistrationStep = "video"
)

// Draft holds questionnaire answers collected during registration. They are
// flushed into the User record only when the flow finishes.
type Draft struct {
	Age    int    `json:"age,omitempty"`
	Gender Gender `json:"gender,omitempty"`
	City   string `json:"city,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

func (d Draft) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *Draft) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = Draft{}
		return nil
	default:
		return fmt.Errorf("unsupported draft type %T", src)
	}
}

// RegistrationState exists only while a participant is mid-registration.
// At most one row per telegram identity; deleted when the flow completes.
type RegistrationState struct {
	TelegramID  int64            `json:"telegram_id" db:"telegram_id"`
	CurrentStep RegistrationStep `json:"current_step" db:"current_step"`
	Draft       Draft            `json:"draft" db:"draft"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}
