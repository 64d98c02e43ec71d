// Package storage provides timer, alarm and preset persistence.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// Compile-time interface check.
var _ domain.ClockStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory timer and alarm store. Safe for concurrent
// access. Values are copied on the way in and out, so the scheduler, the
// engine and the UI never share a pointer.
type MemoryStore struct {
	mu     sync.RWMutex
	timers map[string]domain.Timer
	alarms map[string]domain.Alarm
	log    *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		timers: make(map[string]domain.Timer),
		alarms: make(map[string]domain.Alarm),
		log:    log,
	}
}

// SaveTimer stores a timer. Overwrites if it already exists.
func (s *MemoryStore) SaveTimer(ctx context.Context, t *domain.Timer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving timer %s (%q, remaining=%s, active=%t)", t.ID, t.Label, t.Remaining, t.Active)
	s.timers[t.ID] = *t
	return nil
}

// LoadTimer retrieves a timer by ID.
func (s *MemoryStore) LoadTimer(ctx context.Context, id string) (*domain.Timer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.timers[id]
	if !ok {
		s.log.Debug("timer not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

// DeleteTimer removes a timer by ID.
func (s *MemoryStore) DeleteTimer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.timers, id)
	s.log.Debug("deleted timer %s", id)
	return nil
}

// UpdateTimer mutates a timer in place under the write lock, so a delete
// or toggle made elsewhere is never overwritten by a stale copy.
func (s *MemoryStore) UpdateTimer(ctx context.Context, id string, fn func(*domain.Timer) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return domain.ErrNotFound
	}
	if fn(&t) {
		s.timers[id] = t
	}
	return nil
}

// ListTimers returns all timers, newest first.
func (s *MemoryStore) ListTimers(ctx context.Context) ([]*domain.Timer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Timer, 0, len(s.timers))
	for _, t := range s.timers {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SaveAlarm stores an alarm. Overwrites if it already exists.
func (s *MemoryStore) SaveAlarm(ctx context.Context, a *domain.Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving alarm %s (%s %q, active=%t)", a.ID, a.Time, a.Label, a.Active)
	s.alarms[a.ID] = *a
	return nil
}

// LoadAlarm retrieves an alarm by ID.
func (s *MemoryStore) LoadAlarm(ctx context.Context, id string) (*domain.Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alarms[id]
	if !ok {
		s.log.Debug("alarm not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// DeleteAlarm removes an alarm by ID.
func (s *MemoryStore) DeleteAlarm(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alarms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.alarms, id)
	s.log.Debug("deleted alarm %s", id)
	return nil
}

// ListAlarms returns all alarms, newest first.
func (s *MemoryStore) ListAlarms(ctx context.Context) ([]*domain.Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Alarm, 0, len(s.alarms))
	for _, a := range s.alarms {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
