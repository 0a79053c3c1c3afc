package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts stops a prompt loop that keeps receiving invalid
	// answers from a scripted driver.
	ErrTooManyAttempts = errors.New("tui: too many invalid answers")
)
