package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// Compile-time interface check.
var _ domain.PresetStore = (*PresetFile)(nil)

// PresetFile keeps saved timer presets in a single JSON array file,
// newest first. Every write rewrites the whole file through a temp file
// and rename, so a crash never leaves a half-written list behind.
type PresetFile struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

// NewPresetFile creates a preset store backed by path. The file and its
// directory are created on the first write.
func NewPresetFile(path string, log *logger.Logger) *PresetFile {
	return &PresetFile{path: path, log: log}
}

// List returns all presets. A missing file is an empty list.
func (f *PresetFile) List(ctx context.Context) ([]domain.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Add prepends a preset and persists the list.
func (f *PresetFile) Add(ctx context.Context, p domain.Preset) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	presets, err := f.read()
	if err != nil {
		return err
	}
	for _, existing := range presets {
		if existing.ID == p.ID {
			return fmt.Errorf("preset %s: %w", p.ID, domain.ErrAlreadyExists)
		}
	}

	presets = append([]domain.Preset{p}, presets...)
	if err := f.write(presets); err != nil {
		return err
	}
	f.log.Debug("saved preset %s (%q, %s), %d total", p.ID, p.Label, p.Duration(), len(presets))
	return nil
}

// Delete removes a preset by ID.
func (f *PresetFile) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	presets, err := f.read()
	if err != nil {
		return err
	}

	n := 0
	for _, p := range presets {
		if p.ID != id {
			presets[n] = p
			n++
		}
	}
	if n == len(presets) {
		return domain.ErrNotFound
	}

	if err := f.write(presets[:n]); err != nil {
		return err
	}
	f.log.Debug("deleted preset %s", id)
	return nil
}

func (f *PresetFile) read() ([]domain.Preset, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Preset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading presets %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return []domain.Preset{}, nil
	}

	var presets []domain.Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parsing presets %s: %w", f.path, err)
	}
	if presets == nil {
		presets = []domain.Preset{}
	}
	return presets, nil
}

func (f *PresetFile) write(presets []domain.Preset) error {
	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding presets: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preset dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".presets-*.json")
	if err != nil {
		return fmt.Errorf("creating temp preset file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing presets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing presets: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing presets %s: %w", f.path, err)
	}
	return nil
}
