package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRegistrationNotFound = errors.New("registration state not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchAlreadyExists   = errors.New("active match already exists")
	ErrMediaLimitReached    = errors.New("media limit reached")
	ErrSelfReaction         = errors.New("cannot react to yourself")
	ErrValidation           = errors.New("validation failed")
)
