package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

func TestPresetFileMissingIsEmpty(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewPresetFile(filepath.Join(t.TempDir(), "nested", "presets.json"), log)

	presets, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(presets) != 0 {
		t.Fatalf("expected empty list, got %d", len(presets))
	}
}

func TestPresetFileAddListDelete(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	path := filepath.Join(t.TempDir(), "nested", "presets.json")
	store := NewPresetFile(path, log)
	ctx := context.Background()

	first := domain.Preset{ID: "p1", Minutes: 25, Label: "Pomodoro", AlertText: "Break time"}
	second := domain.Preset{ID: "p2", Minutes: 5, Seconds: 30, Label: "Rest", Looping: true}

	if err := store.Add(ctx, first); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := store.Add(ctx, second); err != nil {
		t.Fatalf("add second: %v", err)
	}
	if err := store.Add(ctx, first); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// A fresh store over the same file sees the same list, newest first.
	reopened := NewPresetFile(path, log)
	presets, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(presets))
	}
	if presets[0] != second || presets[1] != first {
		t.Fatalf("unexpected order or content: %+v", presets)
	}

	if err := reopened.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := reopened.Delete(ctx, "p1"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	presets, _ = store.List(ctx)
	if len(presets) != 1 || presets[0].ID != "p2" {
		t.Fatalf("expected only p2 left, got %+v", presets)
	}
}

func TestPresetFileFormat(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	path := filepath.Join(t.TempDir(), "presets.json")
	store := NewPresetFile(path, log)

	p := domain.Preset{ID: "p1", Minutes: 1, Seconds: 15, Label: "Eggs", AlertText: "Eggs done", Looping: true}
	if err := store.Add(context.Background(), p); err != nil {
		t.Fatalf("add: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("file is not a flat JSON list: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(raw))
	}
	for _, key := range []string{"id", "minutes", "seconds", "label", "customAlertText", "isLooping"} {
		if _, ok := raw[0][key]; !ok {
			t.Fatalf("missing key %q in %s", key, data)
		}
	}
}

func TestPresetFileCorrupt(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := NewPresetFile(path, log)
	if _, err := store.List(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
