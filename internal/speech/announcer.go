package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/hammamikhairi/focuscue/internal/codec"
	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// AnnouncerOption configures the Announcer.
type AnnouncerOption func(*Announcer)

// WithQueueSize sets the internal notification channel capacity.
func WithQueueSize(n int) AnnouncerOption {
	return func(a *Announcer) {
		a.notify = make(chan struct{}, n)
	}
}

// WithChunkSize sets the approximate max character count per synthesis
// request. Longer text is split at sentence boundaries and synthesized in
// parallel so playback doesn't stall between sentences. 0 disables it.
func WithChunkSize(n int) AnnouncerOption {
	return func(a *Announcer) {
		a.chunkSize = n
	}
}

// WithCacheDir sets the filesystem directory used for persistent audio
// caching. If empty, the disk layer is disabled (pure in-memory).
func WithCacheDir(dir string) AnnouncerOption {
	return func(a *Announcer) {
		a.cacheDir = dir
	}
}

// WithDiskWrite controls whether new cache entries are written to disk.
// Even when false, existing on-disk entries are still read.
func WithDiskWrite(enabled bool) AnnouncerOption {
	return func(a *Announcer) {
		a.diskWrite = enabled
	}
}

// WithVoice sets the starting voice.
func WithVoice(voice string) AnnouncerOption {
	return func(a *Announcer) {
		if v, err := domain.LookupVoice(voice); err == nil {
			a.voice = v
		}
	}
}

// WithSampleRate sets the rate of the PCM the generator returns.
func WithSampleRate(rate int) AnnouncerOption {
	return func(a *Announcer) {
		if rate > 0 {
			a.sampleRate = rate
		}
	}
}

// WithAnnouncerClock replaces time.Now for the speaking banner.
func WithAnnouncerClock(now func() time.Time) AnnouncerOption {
	return func(a *Announcer) {
		a.now = now
	}
}

// Announcer is the central speech dispatcher. It serializes all speech
// output through a single pipeline: queue -> chunk -> synthesize
// (parallel) -> decode -> play (sequential). Only one thing speaks at a
// time. Higher priority items are spoken first.
//
// An internal AudioCache transparently avoids re-synthesizing identical
// text. Use Prefetch to pre-warm the cache for text that will be spoken soon.
type Announcer struct {
	gen   domain.SpeechGenerator
	sink  domain.AudioSink
	log   *logger.Logger
	cache *AudioCache
	now   func() time.Time

	sampleRate int
	chunkSize  int
	cacheDir   string
	diskWrite  bool

	mu           sync.Mutex
	voice        string
	queue        []SpeechRequest
	notify       chan struct{}
	interrupted  bool // set by Interrupt(), checked between chunks
	current      string
	currentSince time.Time
	lastSpoken   string
}

// NewAnnouncer creates a speech dispatcher on top of a generator and sink.
func NewAnnouncer(gen domain.SpeechGenerator, sink domain.AudioSink, log *logger.Logger, opts ...AnnouncerOption) *Announcer {
	a := &Announcer{
		gen:        gen,
		sink:       sink,
		log:        log,
		now:        time.Now,
		voice:      domain.DefaultVoice,
		notify:     make(chan struct{}, 32),
		sampleRate: SampleRate,
		chunkSize:  200,
		diskWrite:  true,
	}
	for _, opt := range opts {
		opt(a)
	}
	// Build the cache after options are applied so rate/cacheDir/diskWrite
	// are all settled.
	a.cache = NewAudioCache(a.sampleRate, a.cacheDir, a.diskWrite, log)
	return a
}

// Voice returns the active voice.
func (a *Announcer) Voice() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.voice
}

// SetVoice switches the voice used for everything synthesized from now on.
func (a *Announcer) SetVoice(name string) (string, error) {
	v, err := domain.LookupVoice(name)
	if err != nil {
		return "", fmt.Errorf("%q: %w", name, err)
	}
	a.mu.Lock()
	a.voice = v
	a.mu.Unlock()
	a.log.Info("announcer: voice set to %s", v)
	return v, nil
}

// SampleRate returns the PCM rate of synthesized audio.
func (a *Announcer) SampleRate() int { return a.sampleRate }

// Say queues text to be spoken at the given priority. Non-blocking.
// When something at PriorityNormal or above is queued, any stale
// PriorityLow items are flushed.
func (a *Announcer) Say(text string, priority Priority) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	a.mu.Lock()
	if priority >= PriorityNormal {
		a.flushLowLocked()
	}
	a.queue = append(a.queue, SpeechRequest{
		Text:     text,
		Priority: priority,
		QueuedAt: a.now(),
	})
	qLen := len(a.queue)
	a.mu.Unlock()

	a.log.Debug("announcer: queued (priority=%d, queue_len=%d): %s", priority, qLen, truncate(text, 60))

	select {
	case a.notify <- struct{}{}:
	default: // already signaled
	}
}

// flushLowLocked removes all PriorityLow items from the queue.
// Must be called with a.mu held.
func (a *Announcer) flushLowLocked() {
	n := 0
	for _, item := range a.queue {
		if item.Priority > PriorityLow {
			a.queue[n] = item
			n++
		}
	}
	dropped := len(a.queue) - n
	a.queue = a.queue[:n]
	if dropped > 0 {
		a.log.Debug("announcer: flushed %d low-priority items", dropped)
	}
}

// Speaking returns the line most recently sent to the speaker while it is
// still within BannerDuration of starting.
func (a *Announcer) Speaking() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == "" || a.now().Sub(a.currentSince) >= BannerDuration {
		return "", false
	}
	return a.current, true
}

// QueueLen returns the number of pending speech requests.
func (a *Announcer) QueueLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// LastSpoken returns the most recently spoken text.
func (a *Announcer) LastSpoken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSpoken
}

// Interrupt stops the currently playing audio, clears the queue, and
// causes any in-progress multi-chunk playback to abort.
func (a *Announcer) Interrupt() {
	a.mu.Lock()
	a.queue = a.queue[:0]
	a.interrupted = true
	a.current = ""
	a.mu.Unlock()

	a.sink.Stop()

	a.log.Debug("announcer: interrupted, queue cleared, playback stopped")
}

// Start begins the speech processing goroutine. Non-blocking.
func (a *Announcer) Start(ctx context.Context) {
	go a.processLoop(ctx)
	a.log.Info("announcer started (voice=%s, rate=%d)", a.Voice(), a.sampleRate)
}

func (a *Announcer) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			a.log.Info("announcer stopped")
			return
		case <-a.notify:
			a.drain(ctx)
		}
	}
}

// drain processes all queued items, highest priority first.
func (a *Announcer) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// New items may have been queued after an interrupt.
		a.mu.Lock()
		a.interrupted = false
		a.mu.Unlock()

		item, ok := a.dequeue()
		if !ok {
			return
		}

		a.mu.Lock()
		a.current = item.Text
		a.currentSince = a.now()
		a.mu.Unlock()

		a.process(ctx, item)

		a.mu.Lock()
		a.lastSpoken = item.Text
		a.mu.Unlock()
	}
}

// dequeue removes and returns the highest priority item, oldest first
// among equals.
func (a *Announcer) dequeue() (SpeechRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.queue) == 0 {
		return SpeechRequest{}, false
	}

	bestIdx := 0
	for i, item := range a.queue {
		if item.Priority > a.queue[bestIdx].Priority {
			bestIdx = i
		}
	}

	item := a.queue[bestIdx]
	a.queue = append(a.queue[:bestIdx], a.queue[bestIdx+1:]...)
	return item, true
}

// process synthesizes and plays a single speech request, using chunked
// parallel synthesis for long text.
func (a *Announcer) process(ctx context.Context, req SpeechRequest) {
	waitTime := a.now().Sub(req.QueuedAt).Round(time.Millisecond)
	a.log.Debug("announcer: speaking (priority=%d, waited=%s): %s", req.Priority, waitTime, truncate(req.Text, 60))

	voice := a.Voice()
	chunks := a.splitChunks(req.Text)
	if len(chunks) <= 1 {
		pcm, err := a.synthesize(ctx, voice, req.Text)
		if err != nil {
			a.log.Error("announcer: synthesis failed: %v", err)
			return
		}
		// Interrupt may land while the generator is still answering.
		if a.wasInterrupted() {
			a.log.Debug("announcer: dropping %q (interrupted during synthesis)", truncate(req.Text, 40))
			return
		}
		a.play(ctx, pcm)
		return
	}

	a.log.Debug("announcer: split into %d chunks for parallel synthesis", len(chunks))

	type result struct {
		idx int
		pcm []byte
		err error
	}
	results := make(chan result, len(chunks))

	for i, chunk := range chunks {
		go func(idx int, text string) {
			pcm, err := a.synthesize(ctx, voice, text)
			results <- result{idx: idx, pcm: pcm, err: err}
		}(i, chunk)
	}

	slots := make([][]byte, len(chunks))
	for range chunks {
		r := <-results
		if r.err != nil {
			a.log.Error("announcer: chunk %d synthesis failed: %v", r.idx, r.err)
			continue
		}
		slots[r.idx] = r.pcm
	}

	for i, pcm := range slots {
		if pcm == nil {
			a.log.Debug("announcer: skipping chunk %d (synthesis failed)", i)
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if a.wasInterrupted() {
			a.log.Debug("announcer: aborting chunk playback (interrupted)")
			return
		}
		a.play(ctx, pcm)
	}
}

func (a *Announcer) wasInterrupted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interrupted
}

func (a *Announcer) play(ctx context.Context, pcm []byte) {
	samples := codec.PCMToSamples(pcm, a.sampleRate)
	if err := a.sink.Play(ctx, samples, a.sampleRate, ChannelCount); err != nil {
		a.log.Error("announcer: playback failed: %v", err)
	}
}

// Synthesize returns the PCM for text in the active voice, through the
// cache. Blocks until the generator answers.
func (a *Announcer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}
	return a.synthesize(ctx, a.Voice(), text)
}

// synthesize checks the cache first, otherwise asks the generator, decodes
// its payload and stores the PCM. Thread-safe.
func (a *Announcer) synthesize(ctx context.Context, voice, text string) ([]byte, error) {
	if pcm, ok := a.cache.Get(voice, text); ok {
		return pcm, nil
	}

	encoded, err := a.gen.Generate(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	pcm, err := codec.DecodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding speech audio: %w", err)
	}
	if len(pcm) == 0 {
		return nil, domain.ErrNoAudio
	}

	a.cache.Put(voice, text, pcm)
	return pcm, nil
}

// splitChunks breaks text into sentence-boundary chunks of approximately
// a.chunkSize characters.
func (a *Announcer) splitChunks(text string) []string {
	if a.chunkSize <= 0 || len(text) <= a.chunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, s := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+len(s) > a.chunkSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitSentences splits text at sentence boundaries (. ! ?) keeping the
// punctuation attached to the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if isSentenceEnd(runes[i]) {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// ── Prefetching / Cache ──────────────────────────────────────────

// Prefetch pre-synthesizes the given texts in background goroutines in the
// active voice. Texts already cached are skipped. Non-blocking.
//
// Timer alert texts are known the moment the timer starts, so the console
// prefetches them and the announcement plays without a round trip.
func (a *Announcer) Prefetch(ctx context.Context, texts ...string) {
	voice := a.Voice()
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		for _, chunk := range a.splitChunks(text) {
			if a.cache.Has(voice, chunk) {
				a.log.Debug("prefetch: already cached: %s", truncate(chunk, 50))
				continue
			}
			go func(t string) {
				a.log.Debug("prefetch: synthesizing: %s", truncate(t, 50))
				if _, err := a.synthesize(ctx, voice, t); err != nil {
					a.log.Error("prefetch: synthesis failed: %v", err)
				}
			}(chunk)
		}
	}
}

// Cache returns the audio cache used by this Announcer.
func (a *Announcer) Cache() *AudioCache { return a.cache }
