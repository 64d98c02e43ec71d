// Package engine implements the timer, alarm and preset operations the
// console exposes. It depends only on domain ports and is fully testable
// with the in-memory store.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// DefaultScript is spoken by a timer created without alert text.
const DefaultScript = "Time is up"

// Option configures the engine.
type Option func(*Engine)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithDefaultScript sets the text used when a timer script is left empty.
func WithDefaultScript(text string) Option {
	return func(e *Engine) {
		e.defaultScript = text
	}
}

// Engine manages timers, alarms and saved presets.
type Engine struct {
	store         domain.ClockStore
	presets       domain.PresetStore
	log           *logger.Logger
	now           func() time.Time
	defaultScript string
}

// TimerSpec describes a timer to create.
type TimerSpec struct {
	Duration  time.Duration
	Label     string
	AlertText string
	Looping   bool
}

// AlarmSpec describes an alarm to create.
type AlarmSpec struct {
	Time      string
	Label     string
	AlertText string
}

// New creates an engine with the given dependencies and options.
func New(store domain.ClockStore, presets domain.PresetStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		presets:       presets,
		log:           log,
		now:           time.Now,
		defaultScript: DefaultScript,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Script builds the alert text for a new timer: the style prefix followed
// by text, or by the default script when text is blank.
func (e *Engine) Script(style domain.VoiceStyle, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = e.defaultScript
	}
	return style.Prefix + text
}

// ── Timers ───────────────────────────────────────────────────────

// AddTimer creates and starts a countdown timer.
func (e *Engine) AddTimer(ctx context.Context, spec TimerSpec) (*domain.Timer, error) {
	total := spec.Duration.Truncate(time.Second)
	if total <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	label := strings.TrimSpace(spec.Label)
	if label == "" {
		label = defaultTimerLabel(total)
	}

	timer := &domain.Timer{
		ID:        generateID(),
		Label:     label,
		AlertText: strings.TrimSpace(spec.AlertText),
		Total:     total,
		Remaining: total,
		Active:    true,
		Looping:   spec.Looping,
		CreatedAt: e.now(),
	}

	if err := e.store.SaveTimer(ctx, timer); err != nil {
		return nil, fmt.Errorf("saving timer: %w", err)
	}

	e.log.Info("started timer %s %q (%s, looping=%t)", timer.ID, timer.Label, total, timer.Looping)
	return timer, nil
}

// ToggleTimer pauses a running timer or resumes a paused one. Resuming a
// timer that already ran out restarts it from its full length.
func (e *Engine) ToggleTimer(ctx context.Context, id string) (*domain.Timer, error) {
	var timer domain.Timer
	err := e.store.UpdateTimer(ctx, id, func(t *domain.Timer) bool {
		t.Active = !t.Active
		if t.Active && t.Remaining <= 0 {
			t.Remaining = t.Total
		}
		timer = *t
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("toggling timer: %w", err)
	}

	e.log.Info("timer %s %q active=%t (remaining %s)", timer.ID, timer.Label, timer.Active, timer.Remaining)
	return &timer, nil
}

// DeleteTimer removes a timer.
func (e *Engine) DeleteTimer(ctx context.Context, id string) error {
	if err := e.store.DeleteTimer(ctx, id); err != nil {
		return fmt.Errorf("deleting timer: %w", err)
	}
	e.log.Info("deleted timer %s", id)
	return nil
}

// ListTimers returns all timers, newest first.
func (e *Engine) ListTimers(ctx context.Context) ([]*domain.Timer, error) {
	return e.store.ListTimers(ctx)
}

// ActiveTimer returns the newest running timer, or nil when none runs.
func (e *Engine) ActiveTimer(ctx context.Context) (*domain.Timer, error) {
	timers, err := e.store.ListTimers(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range timers {
		if t.Active {
			return t, nil
		}
	}
	return nil, nil
}

// ── Alarms ───────────────────────────────────────────────────────

// AddAlarm creates an active daily alarm.
func (e *Engine) AddAlarm(ctx context.Context, spec AlarmSpec) (*domain.Alarm, error) {
	at, err := domain.NormalizeAlarmTime(spec.Time)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(spec.Label)
	if label == "" {
		label = at
	}

	alarm := &domain.Alarm{
		ID:        generateID(),
		Time:      at,
		Label:     label,
		AlertText: strings.TrimSpace(spec.AlertText),
		Active:    true,
		CreatedAt: e.now(),
	}

	if err := e.store.SaveAlarm(ctx, alarm); err != nil {
		return nil, fmt.Errorf("saving alarm: %w", err)
	}

	e.log.Info("set alarm %s at %s %q", alarm.ID, alarm.Time, alarm.Label)
	return alarm, nil
}

// ToggleAlarm enables or disables an alarm.
func (e *Engine) ToggleAlarm(ctx context.Context, id string) (*domain.Alarm, error) {
	alarm, err := e.store.LoadAlarm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading alarm: %w", err)
	}

	alarm.Active = !alarm.Active
	if err := e.store.SaveAlarm(ctx, alarm); err != nil {
		return nil, fmt.Errorf("saving alarm: %w", err)
	}

	e.log.Info("alarm %s at %s active=%t", alarm.ID, alarm.Time, alarm.Active)
	return alarm, nil
}

// DeleteAlarm removes an alarm.
func (e *Engine) DeleteAlarm(ctx context.Context, id string) error {
	if err := e.store.DeleteAlarm(ctx, id); err != nil {
		return fmt.Errorf("deleting alarm: %w", err)
	}
	e.log.Info("deleted alarm %s", id)
	return nil
}

// ListAlarms returns all alarms, newest first.
func (e *Engine) ListAlarms(ctx context.Context) ([]*domain.Alarm, error) {
	return e.store.ListAlarms(ctx)
}

// ── Presets ──────────────────────────────────────────────────────

// SavePreset stores a reusable timer configuration.
func (e *Engine) SavePreset(ctx context.Context, spec TimerSpec) (domain.Preset, error) {
	total := spec.Duration.Truncate(time.Second)
	if total <= 0 {
		return domain.Preset{}, domain.ErrInvalidDuration
	}

	mins := int(total / time.Minute)
	secs := int((total % time.Minute) / time.Second)

	label := strings.TrimSpace(spec.Label)
	if label == "" {
		label = fmt.Sprintf("%d:%d", mins, secs)
	}

	p := domain.Preset{
		ID:        generateID(),
		Minutes:   mins,
		Seconds:   secs,
		Label:     label,
		AlertText: strings.TrimSpace(spec.AlertText),
		Looping:   spec.Looping,
	}

	if err := e.presets.Add(ctx, p); err != nil {
		return domain.Preset{}, fmt.Errorf("saving preset: %w", err)
	}

	e.log.Info("saved preset %s %q (%s)", p.ID, p.Label, p.Duration())
	return p, nil
}

// ListPresets returns saved presets, newest first.
func (e *Engine) ListPresets(ctx context.Context) ([]domain.Preset, error) {
	return e.presets.List(ctx)
}

// DeletePreset removes a saved preset.
func (e *Engine) DeletePreset(ctx context.Context, id string) error {
	if err := e.presets.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting preset: %w", err)
	}
	e.log.Info("deleted preset %s", id)
	return nil
}

// StartPreset starts a new timer from a saved preset.
func (e *Engine) StartPreset(ctx context.Context, id string) (*domain.Timer, error) {
	presets, err := e.presets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}

	for _, p := range presets {
		if p.ID != id {
			continue
		}
		return e.AddTimer(ctx, TimerSpec{
			Duration:  p.Duration(),
			Label:     p.Label,
			AlertText: p.AlertText,
			Looping:   p.Looping,
		})
	}
	return nil, fmt.Errorf("preset %s: %w", id, domain.ErrNotFound)
}

// defaultTimerLabel names an unlabeled timer after its length, e.g. "5m 30s".
func defaultTimerLabel(d time.Duration) string {
	mins := int(d / time.Minute)
	secs := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%dm %ds", mins, secs)
}
