package service

import "errors"

var (
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	ErrActivityNotFound  = errors.New("activity not found")
	ErrAmbiguousActivity = errors.New("activity reference is ambiguous")
	ErrEntryNotFound     = errors.New("time entry not found")
	ErrAmbiguousEntry    = errors.New("time entry reference is ambiguous")
	ErrTimerNotRunning   = errors.New("no timer running for activity")
)
