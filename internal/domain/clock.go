// Package domain defines the core types and interfaces for the timer and
// alarm console. All other packages depend on domain; domain depends on
// nothing.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timer is a countdown that announces its alert text when it reaches zero.
type Timer struct {
	ID        string
	Label     string
	AlertText string // spoken on expiry; empty means the default line
	Total     time.Duration
	Remaining time.Duration
	Active    bool
	Looping   bool // restart from Total after firing instead of stopping
	CreatedAt time.Time
}

// Progress returns the elapsed fraction in [0, 1].
func (t *Timer) Progress() float64 {
	if t.Total <= 0 {
		return 0
	}
	p := 1 - float64(t.Remaining)/float64(t.Total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Alarm fires once per day when the wall clock reaches Time.
type Alarm struct {
	ID        string
	Time      string // "HH:MM", 24-hour
	Label     string
	AlertText string
	Active    bool
	CreatedAt time.Time
}

// Announcement returns what the alarm says when it fires.
func (a *Alarm) Announcement() string {
	if a.AlertText != "" {
		return a.AlertText
	}
	return a.Label
}

// NormalizeAlarmTime validates a 24-hour "H:MM" or "HH:MM" string and
// returns it zero-padded, the form alarms are matched against.
func NormalizeAlarmTime(s string) (string, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return "", ErrInvalidAlarmTime
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return "", ErrInvalidAlarmTime
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return "", ErrInvalidAlarmTime
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// ClockTime formats t the way alarm times are stored.
func ClockTime(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Preset is a saved timer configuration. The JSON shape is the on-disk
// preset list format.
type Preset struct {
	ID        string `json:"id"`
	Minutes   int    `json:"minutes"`
	Seconds   int    `json:"seconds"`
	Label     string `json:"label"`
	AlertText string `json:"customAlertText"`
	Looping   bool   `json:"isLooping"`
}

// Duration returns the preset length.
func (p Preset) Duration() time.Duration {
	return time.Duration(p.Minutes)*time.Minute + time.Duration(p.Seconds)*time.Second
}

// FormatClock renders d as MM:SS, rounding up partial seconds so a timer
// never shows 00:00 while it still has time left.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
