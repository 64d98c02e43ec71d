package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hammamikhairi/focuscue/internal/display"
	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/engine"
	"github.com/hammamikhairi/focuscue/internal/logger"
	"github.com/hammamikhairi/focuscue/internal/speech"
)

// console is the part of display.UI the app writes to.
type console interface {
	InputChan() <-chan string
	ToggleMode() display.Mode
	Println(a ...interface{})
	PrintChat(text string)
	PrintHeading(text string)
	PrintLine(text string)
	PrintHint(text string)
	PrintUrgent(text string)
}

type commandParser interface {
	Parse(ctx context.Context, input string) (*domain.Command, error)
}

type cliApp struct {
	engine    *engine.Engine
	parser    commandParser
	announcer *speech.Announcer // nil when TTS is disabled
	exporter  *speech.Exporter  // nil when TTS is disabled
	console   console
	log       *logger.Logger
	style     domain.VoiceStyle // prefix applied to new timer scripts
}

// say prints a line and queues it for speech at the given priority.
func (a *cliApp) say(text string, priority speech.Priority) {
	a.console.PrintChat(text)
	if a.announcer != nil {
		a.announcer.Say(text, priority)
	}
}

// sayError prints an error in red. Errors are not spoken.
func (a *cliApp) sayError(err error) {
	a.console.PrintUrgent(err.Error())
}

func (a *cliApp) run(ctx context.Context) {
	a.say(speech.LineWelcome(), speech.PriorityNormal)

	inputCh := a.console.InputChan()
	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-inputCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Debug("parsing %q: %v", input, err)
			a.sayError(err)
			continue
		}

		a.log.Debug("command: %s (payload=%q)", cmd.Type, cmd.Payload)
		if quit := a.handleCommand(ctx, cmd); quit {
			return
		}
	}
}

// handleCommand dispatches one parsed command and reports whether the app
// should exit.
func (a *cliApp) handleCommand(ctx context.Context, cmd *domain.Command) bool {
	// New actions cut off whatever is still being announced.
	switch cmd.Type {
	case domain.CommandAddTimer, domain.CommandToggle, domain.CommandDelete,
		domain.CommandStartPreset, domain.CommandSay, domain.CommandVoice,
		domain.CommandQuit:
		if a.announcer != nil {
			a.announcer.Interrupt()
		}
	}

	switch cmd.Type {
	case domain.CommandAddTimer:
		a.addTimer(ctx, cmd)
	case domain.CommandAddAlarm:
		a.addAlarm(ctx, cmd)
	case domain.CommandToggle:
		a.toggle(ctx, cmd.Ref)
	case domain.CommandDelete:
		a.remove(ctx, cmd.Ref)
	case domain.CommandList:
		a.showList(ctx)
	case domain.CommandSavePreset:
		a.savePreset(ctx, cmd)
	case domain.CommandListPresets:
		a.showPresets(ctx)
	case domain.CommandStartPreset:
		a.startPreset(ctx, cmd.Ref)
	case domain.CommandListVoices:
		a.showVoices()
	case domain.CommandVoice:
		a.setVoice(ctx, cmd.Payload)
	case domain.CommandStyle:
		a.setStyle(cmd.Payload)
	case domain.CommandSay:
		a.sayText(cmd.Payload)
	case domain.CommandExport:
		a.export(ctx, cmd.Payload)
	case domain.CommandToggleView:
		mode := a.console.ToggleMode()
		a.console.PrintHint(fmt.Sprintf("View: %s (ctrl+b switches too)", mode))
	case domain.CommandHelp:
		a.showHelp()
	case domain.CommandQuit:
		a.say(speech.LineBye(), speech.PriorityCritical)
		return true
	default:
		a.say(speech.LineUnknown(cmd.Payload), speech.PriorityLow)
	}
	return false
}

// ── Timers & alarms ──────────────────────────────────────────────

func (a *cliApp) addTimer(ctx context.Context, cmd *domain.Command) {
	script := a.engine.Script(a.style, cmd.AlertText)
	t, err := a.engine.AddTimer(ctx, engine.TimerSpec{
		Duration:  cmd.Duration,
		Label:     cmd.Label,
		AlertText: script,
		Looping:   cmd.Looping,
	})
	if err != nil {
		a.sayError(err)
		return
	}

	a.say(speech.LineTimerStarted(t.Label, t.Total), speech.PriorityNormal)
	if a.announcer != nil {
		a.announcer.Prefetch(ctx, t.AlertText)
	}
}

func (a *cliApp) addAlarm(ctx context.Context, cmd *domain.Command) {
	alarm, err := a.engine.AddAlarm(ctx, engine.AlarmSpec{
		Time:      cmd.Time,
		Label:     cmd.Label,
		AlertText: cmd.AlertText,
	})
	if err != nil {
		a.sayError(err)
		return
	}

	a.say(speech.LineAlarmSet(alarm), speech.PriorityNormal)
	if a.announcer != nil {
		a.announcer.Prefetch(ctx, alarm.Announcement())
	}
}

func (a *cliApp) toggle(ctx context.Context, ref domain.Ref) {
	switch ref.Kind {
	case domain.TargetTimer:
		t, err := a.timerAt(ctx, ref.Index)
		if err != nil {
			a.sayError(err)
			return
		}
		t, err = a.engine.ToggleTimer(ctx, t.ID)
		if err != nil {
			a.sayError(err)
			return
		}
		if t.Active {
			a.say(speech.LineTimerResumed(t.Label), speech.PriorityNormal)
		} else {
			a.say(speech.LineTimerPaused(t.Label), speech.PriorityNormal)
		}

	case domain.TargetAlarm:
		alarm, err := a.alarmAt(ctx, ref.Index)
		if err != nil {
			a.sayError(err)
			return
		}
		alarm, err = a.engine.ToggleAlarm(ctx, alarm.ID)
		if err != nil {
			a.sayError(err)
			return
		}
		a.say(speech.LineAlarmToggled(alarm), speech.PriorityNormal)

	default:
		a.sayError(domain.ErrInvalidRef)
	}
}

func (a *cliApp) remove(ctx context.Context, ref domain.Ref) {
	var (
		label string
		err   error
	)

	switch ref.Kind {
	case domain.TargetTimer:
		var t *domain.Timer
		if t, err = a.timerAt(ctx, ref.Index); err == nil {
			label = t.Label
			err = a.engine.DeleteTimer(ctx, t.ID)
		}
	case domain.TargetAlarm:
		var alarm *domain.Alarm
		if alarm, err = a.alarmAt(ctx, ref.Index); err == nil {
			label = "Alarm " + alarm.Time
			err = a.engine.DeleteAlarm(ctx, alarm.ID)
		}
	case domain.TargetPreset:
		var p domain.Preset
		if p, err = a.presetAt(ctx, ref.Index); err == nil {
			label = "Preset " + p.Label
			err = a.engine.DeletePreset(ctx, p.ID)
		}
	default:
		err = domain.ErrInvalidRef
	}

	if err != nil {
		a.sayError(err)
		return
	}
	a.say(speech.LineTimerDeleted(label), speech.PriorityNormal)
}

func (a *cliApp) showList(ctx context.Context) {
	timers, err := a.engine.ListTimers(ctx)
	if err != nil {
		a.sayError(err)
		return
	}
	alarms, err := a.engine.ListAlarms(ctx)
	if err != nil {
		a.sayError(err)
		return
	}

	a.console.PrintHeading("Timers")
	if len(timers) == 0 {
		a.console.PrintHint("  none, try: timer 25 Focus")
	}
	for i, t := range timers {
		a.console.PrintLine(formatTimer(i+1, t))
	}

	a.console.PrintHeading("Alarms")
	if len(alarms) == 0 {
		a.console.PrintHint("  none, try: alarm 07:30 Wake up")
	}
	for i, al := range alarms {
		a.console.PrintLine(formatAlarm(i+1, al))
	}
}

// ── Presets ──────────────────────────────────────────────────────

func (a *cliApp) savePreset(ctx context.Context, cmd *domain.Command) {
	p, err := a.engine.SavePreset(ctx, engine.TimerSpec{
		Duration:  cmd.Duration,
		Label:     cmd.Label,
		AlertText: a.engine.Script(a.style, cmd.AlertText),
		Looping:   cmd.Looping,
	})
	if err != nil {
		a.sayError(err)
		return
	}
	a.say(speech.LinePresetSaved(p.Label), speech.PriorityNormal)
}

func (a *cliApp) showPresets(ctx context.Context) {
	presets, err := a.engine.ListPresets(ctx)
	if err != nil {
		a.sayError(err)
		return
	}

	a.console.PrintHeading("Presets")
	if len(presets) == 0 {
		a.console.PrintHint("  none, try: save 25 Focus | Back to work")
		return
	}
	for i, p := range presets {
		a.console.PrintLine(formatPreset(i+1, p))
	}
}

func (a *cliApp) startPreset(ctx context.Context, ref domain.Ref) {
	p, err := a.presetAt(ctx, ref.Index)
	if err != nil {
		a.sayError(err)
		return
	}
	t, err := a.engine.StartPreset(ctx, p.ID)
	if err != nil {
		a.sayError(err)
		return
	}
	a.say(speech.LineTimerStarted(t.Label, t.Total), speech.PriorityNormal)
	if a.announcer != nil {
		a.announcer.Prefetch(ctx, t.AlertText)
	}
}

// ── Voice lab ────────────────────────────────────────────────────

func (a *cliApp) showVoices() {
	current := domain.DefaultVoice
	if a.announcer != nil {
		current = a.announcer.Voice()
	}

	a.console.PrintHeading("Voices")
	for _, v := range domain.Voices {
		marker := "  "
		if v == current {
			marker = "▸ "
		}
		a.console.PrintLine(marker + v)
	}

	a.console.PrintHeading("Styles")
	for _, s := range domain.VoiceStyles {
		marker := "  "
		if s.ID == a.style.ID {
			marker = "▸ "
		}
		a.console.PrintLine(fmt.Sprintf("%s%-7s %s", marker, s.ID, s.Label))
	}
}

func (a *cliApp) setVoice(ctx context.Context, name string) {
	if a.announcer == nil {
		a.console.PrintHint(speech.LineSpeechDisabled())
		return
	}
	if strings.TrimSpace(name) == "" {
		a.console.PrintHint("Voice: " + a.announcer.Voice())
		return
	}

	voice, err := a.announcer.SetVoice(name)
	if err != nil {
		a.sayError(fmt.Errorf("%s: %w (try: voices)", name, err))
		return
	}
	a.say(speech.LineVoicePreview(voice), speech.PriorityHigh)
}

func (a *cliApp) setStyle(id string) {
	if strings.TrimSpace(id) == "" {
		a.console.PrintHint(fmt.Sprintf("Style: %s (%s)", a.style.ID, a.style.Label))
		return
	}

	style, err := domain.LookupStyle(id)
	if err != nil {
		a.sayError(fmt.Errorf("%s: %w (try: voices)", id, err))
		return
	}
	a.style = style
	a.say(speech.LineStyleChanged(style), speech.PriorityNormal)
}

func (a *cliApp) sayText(text string) {
	if a.announcer == nil {
		a.console.PrintHint(speech.LineSpeechDisabled())
		return
	}
	a.say(a.style.Prefix+text, speech.PriorityHigh)
}

func (a *cliApp) export(ctx context.Context, text string) {
	if a.exporter == nil {
		a.console.PrintHint(speech.LineSpeechDisabled())
		return
	}

	line := a.style.Prefix + text
	a.console.PrintHint("Rendering...")
	path, err := a.exporter.Export(ctx, line)
	if err != nil {
		if errors.Is(err, domain.ErrNoAudio) {
			a.sayError(fmt.Errorf("export failed: %w, try again", err))
			return
		}
		a.sayError(fmt.Errorf("export failed: %w", err))
		return
	}
	a.console.PrintHint("Saved " + path)
	// The rendered audio is cached now, so playback costs no second request.
	if a.announcer != nil {
		a.announcer.Say(line, speech.PriorityHigh)
	}
}

// ── Lookups by list position ─────────────────────────────────────

func (a *cliApp) timerAt(ctx context.Context, index int) (*domain.Timer, error) {
	timers, err := a.engine.ListTimers(ctx)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(timers) {
		return nil, fmt.Errorf("timer t%d: %w", index, domain.ErrNotFound)
	}
	return timers[index-1], nil
}

func (a *cliApp) alarmAt(ctx context.Context, index int) (*domain.Alarm, error) {
	alarms, err := a.engine.ListAlarms(ctx)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(alarms) {
		return nil, fmt.Errorf("alarm a%d: %w", index, domain.ErrNotFound)
	}
	return alarms[index-1], nil
}

func (a *cliApp) presetAt(ctx context.Context, index int) (domain.Preset, error) {
	presets, err := a.engine.ListPresets(ctx)
	if err != nil {
		return domain.Preset{}, err
	}
	if index < 1 || index > len(presets) {
		return domain.Preset{}, fmt.Errorf("preset p%d: %w", index, domain.ErrNotFound)
	}
	return presets[index-1], nil
}

// ── Formatting ───────────────────────────────────────────────────

func formatTimer(n int, t *domain.Timer) string {
	state := "running"
	switch {
	case t.Remaining <= 0:
		state = "done"
	case !t.Active:
		state = "paused"
	}
	loop := ""
	if t.Looping {
		loop = " ↻"
	}
	return fmt.Sprintf("t%d  %s%s  %s / %s  %s", n, t.Label, loop,
		domain.FormatClock(t.Remaining), domain.FormatClock(t.Total), state)
}

func formatAlarm(n int, al *domain.Alarm) string {
	state := "on"
	if !al.Active {
		state = "off"
	}
	if al.Label == al.Time {
		return fmt.Sprintf("a%d  %s  %s", n, al.Time, state)
	}
	return fmt.Sprintf("a%d  %s  %s  %s", n, al.Time, al.Label, state)
}

func formatPreset(n int, p domain.Preset) string {
	loop := ""
	if p.Looping {
		loop = " ↻"
	}
	return fmt.Sprintf("p%d  %s%s  %s", n, p.Label, loop, domain.FormatClock(p.Duration()))
}

func (a *cliApp) showHelp() {
	a.console.PrintHeading("Commands")
	for _, line := range helpLines {
		a.console.PrintLine(line)
	}
}

var helpLines = []string{
	"timer <dur> [label] [| alert]   start a countdown (25, 1m30s, 4:30)",
	"loop <dur> [label] [| alert]    countdown that restarts itself",
	"alarm <HH:MM> [label] [| alert] daily alarm",
	"toggle t<n>|a<n>                pause/resume a timer, arm/disarm an alarm",
	"del t<n>|a<n>|p<n>              remove a timer, alarm or preset",
	"list                            show timers and alarms",
	"save [loop] <dur> [label] [| alert]  save a preset",
	"presets / preset <n>            list presets, start one",
	"voices / voice <name>           list voices, switch voice",
	"style <id>                      normal, alert, calm or robot",
	"say <text>                      speak now",
	"export <text>                   write the spoken text to a WAV file",
	"mini                            toggle the compact timer view",
	"quit                            exit",
}
