// Package timer implements the background scheduler that counts down
// timers, fires alarms at their minute, and announces both.
package timer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// DefaultAlert is announced when a finished timer has no alert text.
const DefaultAlert = "Cycle complete!"

// Option configures the scheduler.
type Option func(*Scheduler)

// WithTickInterval sets how often the scheduler advances timers.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithClock replaces time.Now for alarm matching.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithDefaultAlert sets the text announced for timers without alert text.
func WithDefaultAlert(text string) Option {
	return func(s *Scheduler) {
		s.defaultAlert = text
	}
}

// Scheduler runs in the background and manages timer countdown and alarm
// triggering. Everything it announces goes through NotifyUrgent.
type Scheduler struct {
	store        domain.ClockStore
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration
	defaultAlert string
	now          func() time.Time

	// tickMu serializes Tick so lastTriggered is never raced.
	tickMu        sync.Mutex
	lastTriggered string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a scheduler with the given dependencies and options.
func New(store domain.ClockStore, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:        store,
		notifier:     notifier,
		log:          log,
		tickInterval: time.Second,
		defaultAlert: DefaultAlert,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("scheduler already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(childCtx, s.done)

	s.log.Info("scheduler started (tick=%s)", s.tickInterval)
}

// Stop shuts the loop down and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

// Tick runs one cycle: advance timers by one tick interval, then check
// alarms against now.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.tickTimers(ctx)
	s.checkAlarms(ctx, now)
}

// tickTimers advances every active timer through UpdateTimer, so edits the
// console makes mid-tick win. Announcements happen after the store lock is
// released.
func (s *Scheduler) tickTimers(ctx context.Context) {
	timers, err := s.store.ListTimers(ctx)
	if err != nil {
		s.log.Error("scheduler: listing timers: %v", err)
		return
	}

	for _, listed := range timers {
		if !listed.Active {
			continue
		}

		var finished *domain.Timer
		err := s.store.UpdateTimer(ctx, listed.ID, func(t *domain.Timer) bool {
			if !t.Active {
				return false
			}
			t.Remaining -= s.tickInterval
			if t.Remaining <= 0 {
				done := *t
				finished = &done
				if t.Looping {
					t.Remaining = t.Total
				} else {
					t.Remaining = 0
					t.Active = false
				}
			}
			return true
		})
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Debug("timer %s removed during tick", listed.ID)
			continue
		}
		if err != nil {
			s.log.Error("scheduler: updating timer %s: %v", listed.ID, err)
			continue
		}

		if finished != nil {
			s.log.Debug("timer %s %q finished (looping=%t)", finished.ID, finished.Label, finished.Looping)
			s.announce(ctx, s.timerAlert(finished))
		}
	}
}

// checkAlarms fires each active alarm once, on second zero of its minute.
func (s *Scheduler) checkAlarms(ctx context.Context, now time.Time) {
	if now.Second() != 0 {
		s.lastTriggered = ""
		return
	}

	hhmm := domain.ClockTime(now)
	if s.lastTriggered == hhmm {
		return
	}

	alarms, err := s.store.ListAlarms(ctx)
	if err != nil {
		s.log.Error("scheduler: listing alarms: %v", err)
		return
	}

	matched := false
	for _, a := range alarms {
		if !a.Active || a.Time != hhmm {
			continue
		}
		matched = true
		s.log.Debug("alarm %s %q triggered at %s", a.ID, a.Label, hhmm)
		s.announce(ctx, a.Announcement())
	}
	if matched {
		s.lastTriggered = hhmm
	}
}

func (s *Scheduler) timerAlert(t *domain.Timer) string {
	if text := strings.TrimSpace(t.AlertText); text != "" {
		return text
	}
	return s.defaultAlert
}

func (s *Scheduler) announce(ctx context.Context, msg string) {
	if err := s.notifier.NotifyUrgent(ctx, msg); err != nil {
		s.log.Error("scheduler: announcing %q: %v", msg, err)
	}
}
