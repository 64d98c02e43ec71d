// Package speech turns alert text into audio: Gemini synthesis, a two-tier
// audio cache, playback, WAV export, and the announcer that serializes it.
package speech

import (
	"context"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// Compile-time interface check.
var _ domain.AudioSink = (*NullSink)(nil)

// NullSink discards audio. Used when no audio device is available.
type NullSink struct {
	log *logger.Logger
}

// NewNullSink creates a sink that only logs.
func NewNullSink(log *logger.Logger) *NullSink {
	return &NullSink{log: log}
}

// Play drops the samples.
func (n *NullSink) Play(ctx context.Context, samples []float32, sampleRate, channels int) error {
	n.log.Debug("null sink: dropping %d samples at %d Hz", len(samples), sampleRate)
	return nil
}

// Stop does nothing.
func (n *NullSink) Stop() {}
