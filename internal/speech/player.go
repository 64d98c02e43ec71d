package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// Compile-time interface check.
var _ domain.AudioSink = (*Player)(nil)

// Player plays normalized float samples through the system audio device
// via oto. oto allows one context per process, so the rate and channel
// count are fixed at construction.
type Player struct {
	ctx        *oto.Context
	log        *logger.Logger
	sampleRate int
	channels   int

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewPlayer creates an audio player. Initializes the system audio context.
// Returns an error if the audio device is unavailable.
func NewPlayer(sampleRate, channels int, log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", sampleRate, channels)
	return &Player{ctx: ctx, log: log, sampleRate: sampleRate, channels: channels}, nil
}

// Play plays samples synchronously. Blocks until playback finishes, Stop
// is called, or ctx is cancelled.
func (p *Player) Play(ctx context.Context, samples []float32, sampleRate, channels int) error {
	if sampleRate != p.sampleRate || channels != p.channels {
		return fmt.Errorf("audio player opened at %d Hz/%d ch, got %d Hz/%d ch",
			p.sampleRate, p.channels, sampleRate, channels)
	}
	if len(samples) == 0 {
		return nil
	}

	player := p.ctx.NewPlayer(bytes.NewReader(float32LE(samples)))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	p.log.Debug("audio player: playing %d samples", len(samples))

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
		case <-time.After(10 * time.Millisecond):
		}
	}

	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()

	return player.Close()
}

// Stop interrupts the currently playing audio, if any. Safe to call
// concurrently and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("audio player: interrupted")
	}
}

// float32LE serializes samples in the layout oto.FormatFloat32LE expects.
func float32LE(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}
