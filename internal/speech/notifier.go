package speech

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*SpeakingNotifier)(nil)

// DefaultCoalesceWindow is how long an identical urgent line stays muted
// after it was queued.
const DefaultCoalesceWindow = 2 * time.Second

// Speaker queues text for speech.
type Speaker interface {
	Say(text string, priority Priority)
}

// NotifierOption configures the SpeakingNotifier.
type NotifierOption func(*SpeakingNotifier)

// WithCoalesceWindow sets how long a repeated urgent line is printed but
// not spoken again. 0 disables coalescing.
func WithCoalesceWindow(d time.Duration) NotifierOption {
	return func(n *SpeakingNotifier) {
		n.window = d
	}
}

// WithNotifierClock replaces time.Now.
func WithNotifierClock(now func() time.Time) NotifierOption {
	return func(n *SpeakingNotifier) {
		n.now = now
	}
}

// SpeakingNotifier prints through a text notifier and queues the same line
// for speech. Timer and alarm announcements arrive as urgent messages:
//   - several timers finishing on one tick with the same text are spoken once
//   - scripts written in the critical alert style jump the queue
type SpeakingNotifier struct {
	text    domain.Notifier
	speaker Speaker
	log     *logger.Logger
	window  time.Duration
	now     func() time.Time

	mu         sync.Mutex
	lastUrgent string
	lastAt     time.Time
}

// NewSpeakingNotifier creates a notifier that both prints and speaks.
func NewSpeakingNotifier(text domain.Notifier, speaker Speaker, log *logger.Logger, opts ...NotifierOption) *SpeakingNotifier {
	n := &SpeakingNotifier{
		text:    text,
		speaker: speaker,
		log:     log,
		window:  DefaultCoalesceWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify prints the message and queues it for speech at normal priority.
func (n *SpeakingNotifier) Notify(ctx context.Context, message string) error {
	if err := n.text.Notify(ctx, message); err != nil {
		return err
	}
	if spoken := cleanForSpeech(message); spoken != "" {
		n.speaker.Say(spoken, PriorityNormal)
	}
	return nil
}

// NotifyUrgent prints the message and queues it for speech at high
// priority, or critical when it carries the alert style prefix.
func (n *SpeakingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.text.NotifyUrgent(ctx, message); err != nil {
		return err
	}

	spoken := cleanForSpeech(message)
	if spoken == "" || n.repeated(spoken) {
		return nil
	}
	n.speaker.Say(spoken, urgentPriority(spoken))
	return nil
}

// repeated reports whether spoken matches the previous urgent line within
// the coalesce window, and records it otherwise.
func (n *SpeakingNotifier) repeated(spoken string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	if n.window > 0 && spoken == n.lastUrgent && now.Sub(n.lastAt) < n.window {
		n.log.Debug("notifier: coalesced repeated announcement %q", truncate(spoken, 40))
		return true
	}
	n.lastUrgent = spoken
	n.lastAt = now
	return false
}

func urgentPriority(spoken string) Priority {
	for _, s := range domain.VoiceStyles {
		if s.ID == "alert" && s.Prefix != "" && strings.HasPrefix(spoken, s.Prefix) {
			return PriorityCritical
		}
	}
	return PriorityHigh
}

var (
	bracketPrefix = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
	ansiCodes     = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// cleanForSpeech strips terminal colour codes, "[Tag]" prefixes and
// pictographs such as ⏰ or ↻, then collapses whitespace.
func cleanForSpeech(msg string) string {
	cleaned := ansiCodes.ReplaceAllString(msg, "")
	cleaned = bracketPrefix.ReplaceAllString(cleaned, "")
	cleaned = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.So, r) || (unicode.Is(unicode.Sm, r) && r > unicode.MaxASCII) {
			return -1
		}
		return r
	}, cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}
