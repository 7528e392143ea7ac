package interview

import "errors"

var (
	// ErrSessionNotActive is returned when an answer is submitted to a
	// session that has not been started or has already completed.
	ErrSessionNotActive = errors.New("interview session is not active")

	// ErrSessionAlreadyStarted is returned when Start is called twice.
	ErrSessionAlreadyStarted = errors.New("interview session already started")

	// ErrUnknownRole is returned when a role key is not present in the
	// question bank.
	ErrUnknownRole = errors.New("unknown interview role")

	// ErrPhaseCompleted is returned when an answer is submitted to a
	// technical phase that has already served all its questions.
	ErrPhaseCompleted = errors.New("technical phase already completed")
)
