package domain

import "context"

// SpeechGenerator turns text into speech. The result is the provider's
// base64-encoded 16-bit little-endian mono PCM payload. Implementations
// return ErrNoAudio when the provider answers without audio.
type SpeechGenerator interface {
	Generate(ctx context.Context, text, voice string) (string, error)
}

// AudioSink plays normalized samples. Play blocks until playback finishes,
// Stop is called, or ctx is cancelled.
type AudioSink interface {
	Play(ctx context.Context, samples []float32, sampleRate, channels int) error
	Stop()
}

// FileSink persists exported bytes under a suggested file name and returns
// where they ended up.
type FileSink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Notifier delivers messages to the user. Implementations can write to
// the terminal, the console UI, or speak through the announcer.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// ClockStore keeps the live timers and alarms. The in-memory store is the
// only implementation; nothing live outlives the process.
type ClockStore interface {
	SaveTimer(ctx context.Context, t *Timer) error
	LoadTimer(ctx context.Context, id string) (*Timer, error)
	DeleteTimer(ctx context.Context, id string) error
	ListTimers(ctx context.Context) ([]*Timer, error)
	// UpdateTimer applies fn to the stored timer while holding the store
	// lock. The result is written back only when fn returns true. A timer
	// that no longer exists yields ErrNotFound and fn is not called.
	UpdateTimer(ctx context.Context, id string, fn func(*Timer) bool) error

	SaveAlarm(ctx context.Context, a *Alarm) error
	LoadAlarm(ctx context.Context, id string) (*Alarm, error)
	DeleteAlarm(ctx context.Context, id string) error
	ListAlarms(ctx context.Context) ([]*Alarm, error)
}

// PresetStore persists saved timer presets as a flat list.
type PresetStore interface {
	List(ctx context.Context) ([]Preset, error)
	Add(ctx context.Context, p Preset) error
	Delete(ctx context.Context, id string) error
}
