package speech

import (
	"time"

	"github.com/hammamikhairi/focuscue/internal/codec"
)

// DefaultModel is the Gemini model that answers with spoken audio.
const DefaultModel = "gemini-2.5-flash-preview-tts"

// DefaultPromptTemplate wraps the text so the model reads it out instead
// of replying to it.
const DefaultPromptTemplate = "Say the following text clearly: %s"

// Audio parameters of the PCM the model returns.
const (
	SampleRate   = codec.DefaultSampleRate
	ChannelCount = codec.Channels
)

// EnvGeminiAPIKey names the env var holding the Gemini API key.
const EnvGeminiAPIKey = "GEMINI_API_KEY"

// BannerDuration is how long the console keeps showing a spoken line.
const BannerDuration = 7 * time.Second

// Priority levels for speech requests. Higher value = speaks first.
type Priority int

const (
	PriorityLow      Priority = iota // previews, idle chatter
	PriorityNormal                   // console feedback
	PriorityHigh                     // timer and alarm announcements
	PriorityCritical                 // errors the user must hear
)

// SpeechRequest is a queued item waiting to be spoken.
type SpeechRequest struct {
	Text     string
	Priority Priority
	QueuedAt time.Time
}
