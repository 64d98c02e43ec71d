// Package conversation turns console input into commands and prints
// notifications back to the user.
package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// CommandParser matches console lines against a fixed command grammar.
//
//	timer <dur> [label] [| alert]     loop <dur> [label] [| alert]
//	alarm <HH:MM> [label] [| alert]   toggle t<n>|a<n>
//	del t<n>|a<n>|p<n>                list
//	save [loop] <dur> [label] [| alert]
//	presets                           preset <n>
//	voice [name]    voices            style [id]
//	say <text>      export <text>     mini    help    quit
type CommandParser struct {
	log   *logger.Logger
	rules []rule
}

type rule struct {
	regex *regexp.Regexp
	build func(args string) (*domain.Command, error)
}

// NewCommandParser creates the console command parser.
func NewCommandParser(log *logger.Logger) *CommandParser {
	p := &CommandParser{log: log}
	p.rules = []rule{
		{regexp.MustCompile(`(?i)^(?:timer|t|start)(?:\s+(.*))?$`), timerBuilder(false)},
		{regexp.MustCompile(`(?i)^(?:loop|l)(?:\s+(.*))?$`), timerBuilder(true)},
		{regexp.MustCompile(`(?i)^(?:alarm|a)(?:\s+(.*))?$`), buildAlarm},
		{regexp.MustCompile(`(?i)^(?:toggle|pause|resume)(?:\s+(.*))?$`), buildToggle},
		{regexp.MustCompile(`(?i)^(?:del|delete|rm)(?:\s+(.*))?$`), buildDelete},
		{regexp.MustCompile(`(?i)^(?:list|ls|status)$`), simple(domain.CommandList)},
		{regexp.MustCompile(`(?i)^save(?:\s+(.*))?$`), buildSave},
		{regexp.MustCompile(`(?i)^presets$`), simple(domain.CommandListPresets)},
		{regexp.MustCompile(`(?i)^preset(?:\s+(.*))?$`), buildStartPreset},
		{regexp.MustCompile(`(?i)^voices$`), simple(domain.CommandListVoices)},
		{regexp.MustCompile(`(?i)^voice(?:\s+(.*))?$`), payload(domain.CommandVoice, false)},
		{regexp.MustCompile(`(?i)^styles?(?:\s+(.*))?$`), payload(domain.CommandStyle, false)},
		{regexp.MustCompile(`(?i)^say(?:\s+(.*))?$`), payload(domain.CommandSay, true)},
		{regexp.MustCompile(`(?i)^export(?:\s+(.*))?$`), payload(domain.CommandExport, true)},
		{regexp.MustCompile(`(?i)^(?:mini|bubble|view)$`), simple(domain.CommandToggleView)},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), simple(domain.CommandHelp)},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q)$`), simple(domain.CommandQuit)},
	}
	return p
}

// Parse converts a console line into a command. Unrecognized input yields
// CommandUnknown with the input as payload; a recognized command with bad
// arguments yields an error.
func (p *CommandParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, r := range p.rules {
		m := r.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		args := ""
		if len(m) > 1 {
			args = strings.TrimSpace(m[1])
		}
		cmd, err := r.build(args)
		if err != nil {
			p.log.Debug("rejected %q: %v", trimmed, err)
			return nil, err
		}
		p.log.Debug("matched command: %s", cmd.Type)
		return cmd, nil
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CommandUnknown, Payload: trimmed}, nil
}

// ── builders ─────────────────────────────────────────────────────

func simple(t domain.CommandType) func(string) (*domain.Command, error) {
	return func(string) (*domain.Command, error) {
		return &domain.Command{Type: t}, nil
	}
}

func payload(t domain.CommandType, required bool) func(string) (*domain.Command, error) {
	return func(args string) (*domain.Command, error) {
		if required && args == "" {
			return nil, fmt.Errorf("%s: %w", t, domain.ErrMissingArgument)
		}
		return &domain.Command{Type: t, Payload: args}, nil
	}
}

func timerBuilder(looping bool) func(string) (*domain.Command, error) {
	return func(args string) (*domain.Command, error) {
		cmd, err := parseTimerArgs(args)
		if err != nil {
			return nil, err
		}
		cmd.Type = domain.CommandAddTimer
		cmd.Looping = looping
		return cmd, nil
	}
}

func buildSave(args string) (*domain.Command, error) {
	looping := false
	if head, rest, _ := strings.Cut(args, " "); strings.EqualFold(head, "loop") {
		looping = true
		args = strings.TrimSpace(rest)
	}
	cmd, err := parseTimerArgs(args)
	if err != nil {
		return nil, err
	}
	cmd.Type = domain.CommandSavePreset
	cmd.Looping = looping
	return cmd, nil
}

// parseTimerArgs reads "<dur> [label] [| alert]".
func parseTimerArgs(args string) (*domain.Command, error) {
	main, alert := splitAlert(args)
	durText, label, _ := strings.Cut(main, " ")
	if durText == "" {
		return nil, fmt.Errorf("duration: %w", domain.ErrMissingArgument)
	}
	d, err := ParseDuration(durText)
	if err != nil {
		return nil, err
	}
	return &domain.Command{
		Duration:  d,
		Label:     strings.TrimSpace(label),
		AlertText: alert,
	}, nil
}

func buildAlarm(args string) (*domain.Command, error) {
	main, alert := splitAlert(args)
	timeText, label, _ := strings.Cut(main, " ")
	if timeText == "" {
		return nil, fmt.Errorf("alarm time: %w", domain.ErrMissingArgument)
	}
	at, err := domain.NormalizeAlarmTime(timeText)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", timeText, err)
	}
	return &domain.Command{
		Type:      domain.CommandAddAlarm,
		Time:      at,
		Label:     strings.TrimSpace(label),
		AlertText: alert,
	}, nil
}

func buildToggle(args string) (*domain.Command, error) {
	ref, err := ParseRef(args)
	if err != nil {
		return nil, err
	}
	if ref.Kind == domain.TargetPreset {
		return nil, fmt.Errorf("presets cannot be toggled: %w", domain.ErrInvalidRef)
	}
	return &domain.Command{Type: domain.CommandToggle, Ref: ref}, nil
}

func buildDelete(args string) (*domain.Command, error) {
	ref, err := ParseRef(args)
	if err != nil {
		return nil, err
	}
	return &domain.Command{Type: domain.CommandDelete, Ref: ref}, nil
}

func buildStartPreset(args string) (*domain.Command, error) {
	args = strings.TrimPrefix(strings.ToLower(args), "p")
	n, err := strconv.Atoi(args)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("preset %q: %w", args, domain.ErrInvalidRef)
	}
	return &domain.Command{
		Type: domain.CommandStartPreset,
		Ref:  domain.Ref{Kind: domain.TargetPreset, Index: n},
	}, nil
}

// splitAlert separates "main | alert text".
func splitAlert(args string) (main, alert string) {
	main, alert, _ = strings.Cut(args, "|")
	return strings.TrimSpace(main), strings.TrimSpace(alert)
}

// ── shared parsing helpers ───────────────────────────────────────

var refPattern = regexp.MustCompile(`(?i)^([tap])\s*([0-9]+)$`)

// ParseRef reads a list reference such as "t1", "a2" or "p3". Indexes are
// 1-based, matching the numbers the list view prints.
func ParseRef(s string) (domain.Ref, error) {
	m := refPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return domain.Ref{}, fmt.Errorf("%q: %w", s, domain.ErrInvalidRef)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return domain.Ref{}, fmt.Errorf("%q: %w", s, domain.ErrInvalidRef)
	}

	kind := domain.TargetTimer
	switch strings.ToLower(m[1]) {
	case "a":
		kind = domain.TargetAlarm
	case "p":
		kind = domain.TargetPreset
	}
	return domain.Ref{Kind: kind, Index: n}, nil
}

// ParseDuration accepts Go duration syntax ("1m30s"), "mm:ss", or a bare
// number of minutes ("25", "1.5"). The result must be at least a second.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	var d time.Duration
	switch {
	case strings.Contains(s, ":"):
		mm, ss, _ := strings.Cut(s, ":")
		m, err1 := strconv.Atoi(mm)
		sec, err2 := strconv.Atoi(ss)
		if err1 != nil || err2 != nil || m < 0 || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("%q: %w", s, domain.ErrInvalidDuration)
		}
		d = time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
	case isNumber(s):
		mins, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", s, domain.ErrInvalidDuration)
		}
		d = time.Duration(mins * float64(time.Minute))
	default:
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", s, domain.ErrInvalidDuration)
		}
		d = parsed
	}

	d = d.Round(time.Second)
	if d < time.Second {
		return 0, fmt.Errorf("%q: %w", s, domain.ErrInvalidDuration)
	}
	return d, nil
}

func isNumber(s string) bool {
	dot := false
	for _, c := range s {
		switch {
		case c == '.' && !dot:
			dot = true
		case c < '0' || c > '9':
			return false
		}
	}
	return s != "" && s != "."
}
