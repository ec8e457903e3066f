package usecase

import "errors"

var (
	// ErrGoalsNotFound is returned when the owner has not saved any goals yet.
	ErrGoalsNotFound = errors.New("goals not found")
)
