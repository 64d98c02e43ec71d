package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/hammamikhairi/focuscue/internal/codec"
	"github.com/hammamikhairi/focuscue/internal/config"
	"github.com/hammamikhairi/focuscue/internal/logger"
	"github.com/hammamikhairi/focuscue/internal/speech"
)

var (
	okStyle  = color.New(color.FgCyan, color.Bold)
	errStyle = color.New(color.FgRed, color.Bold)
)

// fail prints an error line to stderr and returns the exit code.
func fail(code int, format string, a ...any) int {
	errStyle.Fprintf(os.Stderr, "error: "+format+"\n", a...)
	return code
}

// runSpeak synthesizes one line, plays it and optionally saves it as WAV.
// It returns the process exit code.
func runSpeak(args []string) int {
	fs := flag.NewFlagSet("speak", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath, "path to the YAML config file")
	out := fs.String("out", "", "also write the audio to this WAV file")
	voice := fs.String("voice", "", "prebuilt voice to use")
	mute := fs.Bool("mute", false, "skip playback")
	verbose := fs.Bool("verbose", false, "log to stderr")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: focuscue speak [-out file.wav] [-voice name] text...")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fs.Usage()
		return 2
	}

	level := logger.LevelOff
	if *verbose {
		level = logger.LevelVerbose
	}
	log := logger.New(level, os.Stderr)

	cfg, err := loadConfig(fs, *cfgPath)
	if err != nil {
		return fail(1, "%v", err)
	}
	if *voice != "" {
		cfg.Speech.Voice = *voice
	}
	if err := cfg.Validate(); err != nil {
		return fail(1, "%v", err)
	}
	if cfg.Speech.APIKey == "" {
		return fail(1, "%s is not set", config.EnvAPIKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := speech.NewGeminiClient(ctx, cfg.Speech.APIKey, log, speech.WithModel(cfg.Speech.Model))
	if err != nil {
		return fail(1, "%v", err)
	}

	sink := speech.NewNullSink(log)
	announcer := speech.NewAnnouncer(client, sink, log,
		speech.WithVoice(cfg.Speech.Voice),
		speech.WithSampleRate(cfg.Speech.SampleRate),
		speech.WithCacheDir(cfg.Speech.CacheDir),
		speech.WithDiskWrite(cfg.Speech.DiskCache),
	)

	pcm, err := announcer.Synthesize(ctx, text)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return fail(1, "%v", err)
	}

	if *out != "" {
		if err := os.WriteFile(*out, codec.PCMToWAV(pcm, announcer.SampleRate()), 0o644); err != nil {
			return fail(1, "writing %s: %v", *out, err)
		}
		okStyle.Printf("wrote %s (%s, %d Hz)\n", *out, announcer.Voice(), announcer.SampleRate())
	}

	if *mute {
		return 0
	}

	player, err := speech.NewPlayer(announcer.SampleRate(), speech.ChannelCount, log)
	if err != nil {
		return fail(1, "audio output: %v", err)
	}
	samples := codec.PCMToSamples(pcm, announcer.SampleRate())
	if err := player.Play(ctx, samples, announcer.SampleRate(), speech.ChannelCount); err != nil && !errors.Is(err, context.Canceled) {
		return fail(1, "playback: %v", err)
	}
	return 0
}
