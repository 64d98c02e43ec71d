package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hammamikhairi/focuscue/internal/codec"
	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// Compile-time interface check.
var _ domain.FileSink = (*DirSink)(nil)

// Synthesizer renders text to PCM in its current voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Voice() string
	SampleRate() int
}

// Exporter writes synthesized lines out as WAV files.
type Exporter struct {
	synth Synthesizer
	sink  domain.FileSink
	log   *logger.Logger
	now   func() time.Time
}

// NewExporter creates an exporter. now may be nil.
func NewExporter(synth Synthesizer, sink domain.FileSink, log *logger.Logger, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{synth: synth, sink: sink, log: log, now: now}
}

// Export synthesizes text and saves it as voice_<Voice>_<unixMillis>.wav.
// It returns where the file ended up.
func (e *Exporter) Export(ctx context.Context, text string) (string, error) {
	pcm, err := e.synth.Synthesize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("synthesizing export: %w", err)
	}

	name := fmt.Sprintf("voice_%s_%d.wav", e.synth.Voice(), e.now().UnixMilli())
	wav := codec.PCMToWAV(pcm, e.synth.SampleRate())

	path, err := e.sink.Save(ctx, name, wav)
	if err != nil {
		return "", fmt.Errorf("saving export: %w", err)
	}

	e.log.Info("exported %.1fs of audio to %s", codec.Duration(pcm, e.synth.SampleRate()), path)
	return path, nil
}

// DirSink saves files into a directory, creating it on first use.
type DirSink struct {
	dir string
}

// NewDirSink creates a file sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Save writes data to dir/name. Path components in name are dropped.
func (s *DirSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
