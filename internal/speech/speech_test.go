package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/hammamikhairi/focuscue/internal/codec"
	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

var quiet = logger.New(logger.LevelOff, nil)

// ── fakes ────────────────────────────────────────────────────────

// fakeGenerator returns a fixed PCM payload, base64-encoded.
type fakeGenerator struct {
	mu     sync.Mutex
	pcm    []byte
	raw    string // returned verbatim when set
	err    error
	calls  int
	voices []string
}

func (g *fakeGenerator) Generate(_ context.Context, text, voice string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.voices = append(g.voices, voice)
	if g.err != nil {
		return "", g.err
	}
	if g.raw != "" {
		return g.raw, nil
	}
	return base64.StdEncoding.EncodeToString(g.pcm), nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// gatedGenerator blocks every call until release is closed.
type gatedGenerator struct {
	fakeGenerator
	started chan struct{}
	release chan struct{}
}

func (g *gatedGenerator) Generate(ctx context.Context, text, voice string) (string, error) {
	select {
	case g.started <- struct{}{}:
	default:
	}
	<-g.release
	return g.fakeGenerator.Generate(ctx, text, voice)
}

// fakeSink records what it was asked to play.
type fakeSink struct {
	mu      sync.Mutex
	played  [][]float32
	rates   []int
	stopped int
}

func (s *fakeSink) Play(_ context.Context, samples []float32, sampleRate, channels int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, samples)
	s.rates = append(s.rates, sampleRate)
	return nil
}

func (s *fakeSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
}

func (s *fakeSink) playCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.played)
}

// fakeModels stands in for *genai.Models.
type fakeModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (m *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.model = model
	m.contents = contents
	m.config = config
	return m.resp, m.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// ── Gemini client ────────────────────────────────────────────────

func TestGeminiGenerate(t *testing.T) {
	audio := []byte{0x00, 0x00, 0xFF, 0x7F}
	models := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Sure, here you go."},
				{InlineData: &genai.Blob{MIMEType: "audio/L16;rate=24000", Data: audio}},
			}},
		}},
	}}

	c := newGeminiClient(models, quiet)
	got, err := c.Generate(context.Background(), "Tea is ready", "Kore")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != base64.StdEncoding.EncodeToString(audio) {
		t.Fatalf("unexpected payload %q", got)
	}

	if models.model != DefaultModel {
		t.Fatalf("expected model %s, got %s", DefaultModel, models.model)
	}
	if len(models.contents) != 1 || models.contents[0].Parts[0].Text != "Say the following text clearly: Tea is ready" {
		t.Fatalf("unexpected prompt %+v", models.contents)
	}
	if v := models.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; v != "Kore" {
		t.Fatalf("expected voice Kore, got %s", v)
	}
	if len(models.config.ResponseModalities) != 1 || models.config.ResponseModalities[0] != "AUDIO" {
		t.Fatalf("expected audio modality, got %v", models.config.ResponseModalities)
	}
}

func TestGeminiOptions(t *testing.T) {
	models := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: []byte{1, 0}}},
		}}}},
	}}

	c := newGeminiClient(models, quiet,
		WithModel("custom-tts"),
		WithPromptTemplate("Read: %s"),
		WithPromptTemplate("no placeholder"), // ignored
	)
	if _, err := c.Generate(context.Background(), "hello", "Puck"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if models.model != "custom-tts" {
		t.Fatalf("expected custom model, got %s", models.model)
	}
	if got := models.contents[0].Parts[0].Text; got != "Read: hello" {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestGeminiNoAudio(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"text only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "I can't do that"}}},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newGeminiClient(&fakeModels{resp: tt.resp}, quiet)
			if _, err := c.Generate(context.Background(), "hi", "Zephyr"); !errors.Is(err, domain.ErrNoAudio) {
				t.Fatalf("expected ErrNoAudio, got %v", err)
			}
		})
	}
}

func TestGeminiErrors(t *testing.T) {
	c := newGeminiClient(&fakeModels{err: errors.New("quota")}, quiet)
	if _, err := c.Generate(context.Background(), "hi", "Zephyr"); err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if _, err := c.Generate(context.Background(), "  ", "Zephyr"); !errors.Is(err, domain.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if _, err := NewGeminiClient(context.Background(), "", quiet); err == nil {
		t.Fatal("expected error without API key")
	}
}

// ── cache ────────────────────────────────────────────────────────

func TestAudioCacheMemory(t *testing.T) {
	c := NewAudioCache(SampleRate, "", false, quiet)

	if _, ok := c.Get("Zephyr", "hello"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put("Zephyr", "hello", []byte{1, 2})

	got, ok := c.Get("Zephyr", "hello")
	if !ok || !bytes.Equal(got, []byte{1, 2}) {
		t.Fatalf("expected hit, got %v %v", got, ok)
	}
	if _, ok := c.Get("Kore", "hello"); ok {
		t.Fatal("voices must not share entries")
	}
	if !c.Has("Zephyr", "hello") || c.Has("Kore", "hello") {
		t.Fatal("Has disagrees with Get")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Fatalf("expected 1 hit 2 misses, got %d/%d", hits, misses)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after clear, got %d", c.Len())
	}
}

func TestAudioCacheDiskStoresWAV(t *testing.T) {
	dir := t.TempDir()
	pcm := []byte{0x10, 0x00, 0x20, 0x00}

	c := NewAudioCache(SampleRate, dir, true, quiet)
	c.Put("Zephyr", "stand up", pcm)

	data, err := os.ReadFile(filepath.Join(dir, hashKey("Zephyr", "stand up")+".wav"))
	if err != nil {
		t.Fatalf("reading disk entry: %v", err)
	}
	if !bytes.Equal(data, codec.PCMToWAV(pcm, SampleRate)) {
		t.Fatal("disk entry is not the WAV rendering of the PCM")
	}

	// A fresh cache warms from disk.
	fresh := NewAudioCache(SampleRate, dir, false, quiet)
	got, ok := fresh.Get("Zephyr", "stand up")
	if !ok || !bytes.Equal(got, pcm) {
		t.Fatalf("expected disk hit with original PCM, got %v %v", got, ok)
	}
	if fresh.Len() != 1 {
		t.Fatal("disk hit was not promoted to memory")
	}

	// Another rate ignores the entry.
	other := NewAudioCache(16000, dir, false, quiet)
	if _, ok := other.Get("Zephyr", "stand up"); ok {
		t.Fatal("expected miss for mismatched sample rate")
	}
}

func TestAudioCacheDiskWritesWholeFiles(t *testing.T) {
	dir := t.TempDir()
	pcm := []byte{0x10, 0x00, 0x20, 0x00, 0x30, 0x00}

	c := NewAudioCache(SampleRate, dir, true, quiet)
	c.Put("Zephyr", "tea", pcm)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != hashKey("Zephyr", "tea")+".wav" {
		t.Fatalf("expected only the final WAV, found %v", entries)
	}

	// A partially written file must not be promoted.
	path := filepath.Join(dir, entries[0].Name())
	data, _ := os.ReadFile(path)
	if err := os.WriteFile(path, data[:len(data)-2], 0o644); err != nil {
		t.Fatal(err)
	}
	fresh := NewAudioCache(SampleRate, dir, false, quiet)
	if got, ok := fresh.Get("Zephyr", "tea"); ok {
		t.Fatalf("truncated entry served as %v", got)
	}
	if fresh.Len() != 0 {
		t.Fatal("truncated entry promoted to memory")
	}
}

func TestAudioCacheDiskReadOnly(t *testing.T) {
	dir := t.TempDir()
	c := NewAudioCache(SampleRate, dir, false, quiet)
	c.Put("Zephyr", "hello", []byte{1, 2})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected nothing written, found %d files", len(entries))
	}
}

// ── announcer ────────────────────────────────────────────────────

func TestAnnouncerSpeaksThroughPipeline(t *testing.T) {
	gen := &fakeGenerator{pcm: []byte{0x00, 0x00, 0xFF, 0x7F}}
	sink := &fakeSink{}
	a := NewAnnouncer(gen, sink, quiet, WithVoice("puck"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	a.Say("Break over", PriorityHigh)
	waitFor(t, func() bool { return sink.playCount() == 1 })

	sink.mu.Lock()
	samples, rate := sink.played[0], sink.rates[0]
	sink.mu.Unlock()

	if len(samples) != 2 || samples[0] != 0 || samples[1] != 32767.0/32768.0 {
		t.Fatalf("unexpected samples %v", samples)
	}
	if rate != SampleRate {
		t.Fatalf("expected rate %d, got %d", SampleRate, rate)
	}
	gen.mu.Lock()
	voice := gen.voices[0]
	gen.mu.Unlock()
	if voice != "Puck" {
		t.Fatalf("expected voice Puck, got %s", voice)
	}
	waitFor(t, func() bool { return a.LastSpoken() == "Break over" })

	// Second time comes from the cache.
	a.Say("Break over", PriorityHigh)
	waitFor(t, func() bool { return sink.playCount() == 2 })
	if n := gen.callCount(); n != 1 {
		t.Fatalf("expected one generator call, got %d", n)
	}
}

func TestAnnouncerIgnoresBlankText(t *testing.T) {
	a := NewAnnouncer(&fakeGenerator{}, &fakeSink{}, quiet)
	a.Say("   ", PriorityHigh)
	if a.QueueLen() != 0 {
		t.Fatal("blank text was queued")
	}
}

func TestAnnouncerDequeueByPriority(t *testing.T) {
	a := NewAnnouncer(&fakeGenerator{}, &fakeSink{}, quiet)

	a.Say("low", PriorityLow)
	a.Say("normal one", PriorityNormal) // flushes "low"
	a.Say("high", PriorityHigh)
	a.Say("normal two", PriorityNormal)

	var order []string
	for {
		item, ok := a.dequeue()
		if !ok {
			break
		}
		order = append(order, item.Text)
	}

	want := []string{"high", "normal one", "normal two"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestAnnouncerSynthesize(t *testing.T) {
	gen := &fakeGenerator{pcm: []byte{1, 0, 2, 0}}
	a := NewAnnouncer(gen, &fakeSink{}, quiet)
	ctx := context.Background()

	pcm, err := a.Synthesize(ctx, "hello")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if !bytes.Equal(pcm, []byte{1, 0, 2, 0}) {
		t.Fatalf("unexpected pcm %v", pcm)
	}
	if _, err := a.Synthesize(ctx, "hello"); err != nil || gen.callCount() != 1 {
		t.Fatalf("expected cached second call, calls=%d err=%v", gen.callCount(), err)
	}

	if _, err := a.SetVoice("Charon"); err != nil {
		t.Fatalf("set voice: %v", err)
	}
	if _, err := a.Synthesize(ctx, "hello"); err != nil || gen.callCount() != 2 {
		t.Fatalf("expected new voice to miss the cache, calls=%d err=%v", gen.callCount(), err)
	}

	if _, err := a.Synthesize(ctx, " "); !errors.Is(err, domain.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestAnnouncerSynthesizeErrors(t *testing.T) {
	ctx := context.Background()

	bad := NewAnnouncer(&fakeGenerator{raw: "not*base64"}, &fakeSink{}, quiet)
	if _, err := bad.Synthesize(ctx, "x"); !errors.Is(err, codec.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}

	failing := NewAnnouncer(&fakeGenerator{err: domain.ErrNoAudio}, &fakeSink{}, quiet)
	if _, err := failing.Synthesize(ctx, "x"); !errors.Is(err, domain.ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestAnnouncerSetVoiceUnknown(t *testing.T) {
	a := NewAnnouncer(&fakeGenerator{}, &fakeSink{}, quiet)
	if _, err := a.SetVoice("Bob"); !errors.Is(err, domain.ErrUnknownVoice) {
		t.Fatalf("expected ErrUnknownVoice, got %v", err)
	}
	if a.Voice() != domain.DefaultVoice {
		t.Fatalf("voice changed to %s", a.Voice())
	}
}

func TestAnnouncerSpeakingBanner(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	sink := &fakeSink{}
	a := NewAnnouncer(&fakeGenerator{pcm: []byte{0, 0}}, sink, quiet, WithAnnouncerClock(clock))

	if _, ok := a.Speaking(); ok {
		t.Fatal("nothing spoken yet")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)
	a.Say("Stretch", PriorityHigh)
	waitFor(t, func() bool { return sink.playCount() == 1 })

	if text, ok := a.Speaking(); !ok || text != "Stretch" {
		t.Fatalf("expected banner for Stretch, got %q %v", text, ok)
	}
	advance(BannerDuration)
	if _, ok := a.Speaking(); ok {
		t.Fatal("banner outlived its duration")
	}
}

func TestAnnouncerInterrupt(t *testing.T) {
	sink := &fakeSink{}
	a := NewAnnouncer(&fakeGenerator{}, sink, quiet)
	a.Say("one", PriorityNormal)
	a.Say("two", PriorityNormal)

	a.Interrupt()
	if a.QueueLen() != 0 {
		t.Fatalf("expected empty queue, got %d", a.QueueLen())
	}
	if sink.stopped != 1 {
		t.Fatal("sink was not stopped")
	}
}

func TestAnnouncerInterruptDuringSynthesis(t *testing.T) {
	gen := &gatedGenerator{
		fakeGenerator: fakeGenerator{pcm: []byte{0, 0}},
		started:       make(chan struct{}, 1),
		release:       make(chan struct{}),
	}
	sink := &fakeSink{}
	a := NewAnnouncer(gen, sink, quiet)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	a.Say("Stale line", PriorityNormal)
	<-gen.started

	a.Interrupt()
	a.Say("Fresh line", PriorityNormal)
	close(gen.release)

	waitFor(t, func() bool { return gen.callCount() == 2 && sink.playCount() >= 1 })
	time.Sleep(50 * time.Millisecond)
	if n := sink.playCount(); n != 1 {
		t.Fatalf("expected only the fresh line played, got %d plays", n)
	}
}

func TestSplitChunks(t *testing.T) {
	a := NewAnnouncer(&fakeGenerator{}, &fakeSink{}, quiet, WithChunkSize(20))

	got := a.splitChunks("First sentence. Second one here! Third?")
	want := []string{"First sentence.", "Second one here!", "Third?"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := a.splitChunks("short"); len(got) != 1 {
		t.Fatalf("short text split: %q", got)
	}
}

func TestPrefetchWarmsCache(t *testing.T) {
	gen := &fakeGenerator{pcm: []byte{1, 0}}
	a := NewAnnouncer(gen, &fakeSink{}, quiet)

	a.Prefetch(context.Background(), "Tea is ready", "")
	waitFor(t, func() bool { return a.Cache().Has(domain.DefaultVoice, "Tea is ready") })

	a.Prefetch(context.Background(), "Tea is ready")
	if n := gen.callCount(); n != 1 {
		t.Fatalf("expected cached text to be skipped, got %d calls", n)
	}
}

// ── exporter ─────────────────────────────────────────────────────

type fakeSynth struct {
	pcm []byte
	err error
}

func (s *fakeSynth) Synthesize(context.Context, string) ([]byte, error) { return s.pcm, s.err }
func (s *fakeSynth) Voice() string                                     { return "Kore" }
func (s *fakeSynth) SampleRate() int                                   { return SampleRate }

func TestExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	pcm := []byte{0x00, 0x00, 0xFF, 0x7F}
	stamp := time.UnixMilli(1760000000123)

	e := NewExporter(&fakeSynth{pcm: pcm}, NewDirSink(dir), quiet, func() time.Time { return stamp })

	path, err := e.Export(context.Background(), "hello")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if want := filepath.Join(dir, "voice_Kore_1760000000123.wav"); path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(data) != 48 || string(data[:4]) != "RIFF" || !bytes.Equal(data[44:], pcm) {
		t.Fatalf("export is not the expected WAV: %v", data)
	}
}

func TestExporterPropagatesErrors(t *testing.T) {
	e := NewExporter(&fakeSynth{err: domain.ErrNoAudio}, NewDirSink(t.TempDir()), quiet, nil)
	if _, err := e.Export(context.Background(), "hello"); !errors.Is(err, domain.ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestDirSinkDropsPathComponents(t *testing.T) {
	dir := t.TempDir()
	path, err := NewDirSink(dir).Save(context.Background(), "../../escape.wav", []byte("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != filepath.Join(dir, "escape.wav") {
		t.Fatalf("file escaped its directory: %s", path)
	}
}

// ── notifier / lines ─────────────────────────────────────────────

type textNotifier struct {
	normal, urgent []string
}

func (n *textNotifier) Notify(_ context.Context, msg string) error {
	n.normal = append(n.normal, msg)
	return nil
}

func (n *textNotifier) NotifyUrgent(_ context.Context, msg string) error {
	n.urgent = append(n.urgent, msg)
	return nil
}

type recordingSpeaker struct {
	texts      []string
	priorities []Priority
}

func (s *recordingSpeaker) Say(text string, p Priority) {
	s.texts = append(s.texts, text)
	s.priorities = append(s.priorities, p)
}

func TestSpeakingNotifier(t *testing.T) {
	text := &textNotifier{}
	speaker := &recordingSpeaker{}
	n := NewSpeakingNotifier(text, speaker, quiet)
	ctx := context.Background()

	if err := n.Notify(ctx, "[Timer] \x1b[36mFocus\x1b[0m started"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := n.NotifyUrgent(ctx, "Cycle complete!"); err != nil {
		t.Fatalf("notify urgent: %v", err)
	}

	if len(text.normal) != 1 || len(text.urgent) != 1 {
		t.Fatalf("text notifier not called: %+v", text)
	}
	if speaker.texts[0] != "Focus started" || speaker.priorities[0] != PriorityNormal {
		t.Fatalf("unexpected first speech %q/%d", speaker.texts[0], speaker.priorities[0])
	}
	if speaker.texts[1] != "Cycle complete!" || speaker.priorities[1] != PriorityHigh {
		t.Fatalf("unexpected urgent speech %q/%d", speaker.texts[1], speaker.priorities[1])
	}
}

func TestSpeakingNotifierAnnouncements(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	text := &textNotifier{}
	speaker := &recordingSpeaker{}
	n := NewSpeakingNotifier(text, speaker, quiet, WithNotifierClock(func() time.Time { return now }))
	ctx := context.Background()

	// Two timers finishing on the same tick with the default script.
	n.NotifyUrgent(ctx, "Time is up")
	n.NotifyUrgent(ctx, "Time is up")
	if len(text.urgent) != 2 {
		t.Fatalf("every announcement must be printed, got %d", len(text.urgent))
	}
	if len(speaker.texts) != 1 {
		t.Fatalf("expected repeated line spoken once, got %q", speaker.texts)
	}

	// Outside the window it is spoken again.
	now = now.Add(DefaultCoalesceWindow)
	n.NotifyUrgent(ctx, "Time is up")
	if len(speaker.texts) != 2 {
		t.Fatalf("expected line spoken after the window, got %q", speaker.texts)
	}

	// Alert-style scripts are critical; pictographs are not read out.
	n.NotifyUrgent(ctx, "⏰ URGENT:  Tea is ready")
	last := len(speaker.texts) - 1
	if speaker.texts[last] != "URGENT: Tea is ready" || speaker.priorities[last] != PriorityCritical {
		t.Fatalf("unexpected alert speech %q/%d", speaker.texts[last], speaker.priorities[last])
	}

	// Disabled coalescing speaks everything.
	speaker2 := &recordingSpeaker{}
	n2 := NewSpeakingNotifier(&textNotifier{}, speaker2, quiet, WithCoalesceWindow(0))
	n2.NotifyUrgent(ctx, "Lunch")
	n2.NotifyUrgent(ctx, "Lunch")
	if len(speaker2.texts) != 2 {
		t.Fatalf("expected both spoken without coalescing, got %q", speaker2.texts)
	}
}

func TestSpokenDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{time.Minute, "1 minute"},
		{25 * time.Minute, "25 minutes"},
		{2*time.Minute + time.Second, "2 minutes 1 second"},
	}
	for _, tt := range tests {
		if got := spokenDuration(tt.d); got != tt.want {
			t.Errorf("spokenDuration(%s): expected %q, got %q", tt.d, tt.want, got)
		}
	}
}
