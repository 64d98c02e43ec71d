// Package speech: lines.go centralises every spoken string. Keep lines
// short and direct; the TTS model handles inflection.
package speech

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hammamikhairi/focuscue/internal/domain"
)

// ── Greeting / Global ────────────────────────────────────────────

var welcomes = []string{
	"Focus mode on.",
	"Ready when you are.",
	"Let's get some work done.",
	"Clock is ticking. In a good way.",
}

// LineWelcome picks a greeting at random.
func LineWelcome() string {
	return welcomes[rand.Intn(len(welcomes))]
}

func LineBye() string {
	return "Bye."
}

func LineUnknown(input string) string {
	return fmt.Sprintf("Didn't catch that: %s.", input)
}

func LineSpeechDisabled() string {
	return fmt.Sprintf("Speech is off. Set %s to hear announcements.", EnvGeminiAPIKey)
}

// ── Timers ───────────────────────────────────────────────────────

func LineTimerStarted(label string, d time.Duration) string {
	return fmt.Sprintf("%s started, %s.", label, spokenDuration(d))
}

func LineTimerPaused(label string) string {
	return fmt.Sprintf("%s paused.", label)
}

func LineTimerResumed(label string) string {
	return fmt.Sprintf("%s resumed.", label)
}

func LineTimerDeleted(label string) string {
	return fmt.Sprintf("%s removed.", label)
}

// ── Alarms ───────────────────────────────────────────────────────

func LineAlarmSet(a *domain.Alarm) string {
	if a.Label == a.Time {
		return fmt.Sprintf("Alarm set for %s.", a.Time)
	}
	return fmt.Sprintf("%s alarm set for %s.", a.Label, a.Time)
}

func LineAlarmToggled(a *domain.Alarm) string {
	if a.Active {
		return fmt.Sprintf("Alarm %s on.", a.Time)
	}
	return fmt.Sprintf("Alarm %s off.", a.Time)
}

// ── Presets ──────────────────────────────────────────────────────

func LinePresetSaved(label string) string {
	return fmt.Sprintf("Preset %s saved.", label)
}

// ── Voice lab ────────────────────────────────────────────────────

// LineVoicePreview is what a voice says when the user picks it.
func LineVoicePreview(voice string) string {
	return fmt.Sprintf("Hi, I'm %s. I'll be your timer voice.", voice)
}

func LineStyleChanged(style domain.VoiceStyle) string {
	return fmt.Sprintf("Style set to %s.", style.Label)
}

// spokenDuration reads a duration the way a person would say it.
func spokenDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)

	unit := func(n int, word string) string {
		if n == 1 {
			return "1 " + word
		}
		return fmt.Sprintf("%d %ss", n, word)
	}

	switch {
	case m == 0:
		return unit(s, "second")
	case s == 0:
		return unit(m, "minute")
	default:
		return unit(m, "minute") + " " + unit(s, "second")
	}
}
