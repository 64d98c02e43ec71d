// FocusCue: countdown timers and daily alarms that talk back.
//
// Usage:
//
//	focuscue [-config focuscue.yaml] [-verbose] [-quiet] [-voice Kore]
//	focuscue speak [-out hello.wav] text...
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/focuscue/internal/config"
	"github.com/hammamikhairi/focuscue/internal/conversation"
	"github.com/hammamikhairi/focuscue/internal/display"
	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/engine"
	"github.com/hammamikhairi/focuscue/internal/logger"
	"github.com/hammamikhairi/focuscue/internal/speech"
	"github.com/hammamikhairi/focuscue/internal/storage"
	"github.com/hammamikhairi/focuscue/internal/timer"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) > 1 && os.Args[1] == "speak" {
		os.Exit(runSpeak(os.Args[2:]))
	}

	fs := flag.NewFlagSet("focuscue", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath, "path to the YAML config file")
	verbose := fs.Bool("verbose", false, "enable verbose/debug logging")
	quiet := fs.Bool("quiet", false, "disable all logging")
	logFile := fs.String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	voice := fs.String("voice", "", "prebuilt voice for announcements")
	noSpeech := fs.Bool("no-speech", false, "disable text-to-speech even if "+config.EnvAPIKey+" is set")
	diskCache := fs.Bool("disk-cache", true, "persist TTS audio cache to disk (reads from disk even when false)")
	cacheDir := fs.String("cache-dir", "", "directory for persistent TTS audio cache")
	exportDir := fs.String("export-dir", "", "directory exported WAV files are written to")
	presetsPath := fs.String("presets", "", "JSON file holding saved presets")
	fs.Parse(os.Args[1:])

	cfg, err := loadConfig(fs, *cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the file, but only when given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose":
			if *verbose {
				cfg.Logging.Level = logger.LevelVerbose.String()
			}
		case "quiet":
			if *quiet {
				cfg.Logging.Level = logger.LevelOff.String()
			}
		case "log-file":
			cfg.Logging.File = *logFile
		case "voice":
			cfg.Speech.Voice = *voice
		case "no-speech":
			cfg.Speech.Enabled = !*noSpeech
		case "disk-cache":
			cfg.Speech.DiskCache = *diskCache
		case "cache-dir":
			cfg.Speech.CacheDir = *cacheDir
		case "export-dir":
			cfg.Export.Dir = *exportDir
		case "presets":
			cfg.Presets.Path = *presetsPath
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logOut, closeLog := openLogOutput(cfg.Logging.File)
	defer closeLog()

	// Third-party packages log through the stdlib logger; keep them off
	// the terminal too.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	level, _ := logger.ParseLevel(cfg.Logging.Level)
	log := logger.New(level, logOut)

	// Set up context, cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	store := storage.NewMemoryStore(log)
	presets := storage.NewPresetFile(cfg.Presets.Path, log)
	eng := engine.New(store, presets, log)

	style, _ := domain.LookupStyle(cfg.Speech.Style)

	var (
		announcer *speech.Announcer
		exporter  *speech.Exporter
		status    display.SpeechStatus
	)
	if cfg.SpeechReady() {
		announcer, err = buildAnnouncer(ctx, cfg, log)
		if err != nil {
			log.Error("speech init failed, speech disabled: %v", err)
			announcer = nil
		}
	} else if cfg.Speech.Enabled {
		log.Info("TTS disabled: set %s to enable", config.EnvAPIKey)
	}
	if announcer != nil {
		status = announcer
		exporter = speech.NewExporter(announcer, speech.NewDirSink(cfg.Export.Dir), log, nil)
	}

	ui := display.NewUI(eng, status)
	textNotifier := conversation.NewCLINotifier(log, ui.Printf)

	var activeNotifier domain.Notifier = textNotifier
	if announcer != nil {
		announcer.Start(ctx)
		activeNotifier = speech.NewSpeakingNotifier(textNotifier, announcer, log)
		log.Info("TTS enabled (voice=%s, model=%s)", announcer.Voice(), cfg.Speech.Model)
	}

	scheduler := timer.New(store, activeNotifier, log,
		timer.WithTickInterval(cfg.Scheduler.Tick),
	)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	app := &cliApp{
		engine:    eng,
		parser:    conversation.NewCommandParser(log),
		announcer: announcer,
		exporter:  exporter,
		console:   ui,
		log:       log,
		style:     style,
	}

	subtitle := "Type 'help' for commands, 'quit' to exit."
	if announcer == nil {
		subtitle = speech.LineSpeechDisabled() + " " + subtitle
	}
	fmt.Println(display.RenderBanner(subtitle))

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// loadConfig reads the config file. The default path may be missing; an
// explicitly named one may not.
func loadConfig(fs *flag.FlagSet, path string) (*config.Config, error) {
	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	if explicit {
		return config.Load(path)
	}
	return config.LoadOptional(path)
}

// openLogOutput directs logs to a file so the TUI stays clean. It falls
// back to stderr when the file cannot be opened.
func openLogOutput(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

// buildAnnouncer connects to Gemini and the audio device. A missing audio
// device is not fatal: lines are still synthesized and exported, just not
// played.
func buildAnnouncer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*speech.Announcer, error) {
	client, err := speech.NewGeminiClient(ctx, cfg.Speech.APIKey, log,
		speech.WithModel(cfg.Speech.Model),
	)
	if err != nil {
		return nil, err
	}

	var sink domain.AudioSink
	player, err := speech.NewPlayer(cfg.Speech.SampleRate, speech.ChannelCount, log)
	if err != nil {
		log.Error("audio player init failed, playback muted: %v", err)
		sink = speech.NewNullSink(log)
	} else {
		sink = player
	}

	return speech.NewAnnouncer(client, sink, log,
		speech.WithVoice(cfg.Speech.Voice),
		speech.WithSampleRate(cfg.Speech.SampleRate),
		speech.WithCacheDir(cfg.Speech.CacheDir),
		speech.WithDiskWrite(cfg.Speech.DiskCache),
	), nil
}
