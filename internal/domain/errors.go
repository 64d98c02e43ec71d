package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidDuration  = errors.New("duration must be positive")
	ErrInvalidAlarmTime = errors.New("alarm time must be HH:MM")
	ErrUnknownVoice     = errors.New("unknown voice")
	ErrUnknownStyle     = errors.New("unknown voice style")
	ErrEmptyText        = errors.New("nothing to say")
	ErrInvalidRef       = errors.New("expected a reference like t1, a2 or p3")
	ErrMissingArgument  = errors.New("missing argument")

	// ErrNoAudio is returned by a SpeechGenerator whose provider answered
	// without any audio payload. Callers decide whether to retry.
	ErrNoAudio = errors.New("speech provider returned no audio")
)
