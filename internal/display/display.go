// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent timer and alarm status bar and an
// input prompt at the bottom of the terminal. All application output is
// printed above the rendered area via Program.Println / Printf, ensuring
// concurrent writes never garble the display.
//
// The UI has two modes. FULL shows the status bar, the speaking banner
// and the prompt. BUBBLE collapses everything into the first running
// timer with a progress bar.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/focuscue/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	timerRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	timerDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	timerPausedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#71717a")).
				Italic(true)

	alarmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c4b5fd"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	speakingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d399")).
			Bold(true)

	bubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 2)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	// BannerStyle is used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

const (
	appTitle = "FocusCue"
	prompt   = "cue> "
)

// Mode selects what the UI renders below the scrollback.
type Mode int32

const (
	ModeFull Mode = iota
	ModeBubble
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeBubble {
		return "BUBBLE"
	}
	return "FULL"
}

// Source supplies the timers and alarms the status bar shows, and the
// running timer the bubble view follows.
type Source interface {
	ListTimers(ctx context.Context) ([]*domain.Timer, error)
	ListAlarms(ctx context.Context) ([]*domain.Alarm, error)
	ActiveTimer(ctx context.Context) (*domain.Timer, error)
}

// SpeechStatus reports the line currently being announced.
type SpeechStatus interface {
	Speaking() (string, bool)
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking).  Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	source  Source
	speech  SpeechStatus
	mode    atomic.Int32
	done    atomic.Bool
}

// NewUI creates the display. speech may be nil when speech is disabled.
// Call Run() to start.
func NewUI(source Source, speech SpeechStatus) *UI {
	return &UI{
		source:  source,
		speech:  speech,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// Mode returns the current display mode.
func (u *UI) Mode() Mode { return Mode(u.mode.Load()) }

// ToggleMode switches between FULL and BUBBLE and returns the new mode.
func (u *UI) ToggleMode() Mode {
	next := ModeFull
	if u.Mode() == ModeFull {
		next = ModeBubble
	}
	u.mode.Store(int32(next))
	if u.program != nil && !u.done.Load() {
		u.program.Send(modeMsg(next))
	}
	return next
}

// ── Styled print helpers ─────────────────────────────────────────

// PrintChat prints a line the app says back to the user.
func (u *UI) PrintChat(text string) {
	u.Println(chatStyle.Render("  " + text))
}

// PrintHeading prints a section header such as "Timers".
func (u *UI) PrintHeading(text string) {
	u.Println(headingStyle.Render("  " + text))
}

// PrintLine prints a regular list or body line.
func (u *UI) PrintLine(text string) {
	u.Println(primaryStyle.Render("    " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error or alert line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("cue") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop.  Blocks until quit.
func (u *UI) Run() error {
	m := newModel(u.source, u.speech, u.inputCh, u.readyCh, u.PrintUserInput)
	m.mode = u.Mode()
	m.onToggle = func(next Mode) { u.mode.Store(int32(next)) }

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	source   Source
	speech   SpeechStatus
	input    textinput.Model
	bar      progress.Model
	inputCh  chan<- string
	readyCh  chan struct{}
	echoFn   func(string) // prints user input into scrollback
	onToggle func(Mode)

	mode     Mode
	timers   []*domain.Timer
	alarms   []*domain.Alarm
	active   *domain.Timer
	speaking string
	width    int
}

// Messages.
type (
	tickMsg time.Time
	modeMsg Mode
)

func newModel(source Source, speech SpeechStatus, inputCh chan<- string, readyCh chan struct{}, echoFn func(string)) model {
	ti := textinput.New()
	// Plain-text prompt keeps the textinput width math correct; styled
	// prompts add ANSI bytes that break its offset calculations.
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	return model{
		source:  source,
		speech:  speech,
		input:   ti,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		inputCh: inputCh,
		readyCh: readyCh,
		echoFn:  echoFn,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if ch != nil {
			close(ch)
		}
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlB:
			m.mode = m.nextMode()
			if m.onToggle != nil {
				m.onToggle(m.mode)
			}
			return m, nil
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd so Println runs outside Update.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case modeMsg:
		m.mode = Mode(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(m.titleStr()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) nextMode() Mode {
	if m.mode == ModeFull {
		return ModeBubble
	}
	return ModeFull
}

func (m *model) refresh() {
	ctx := context.Background()
	if timers, err := m.source.ListTimers(ctx); err == nil {
		m.timers = timers
	}
	if alarms, err := m.source.ListAlarms(ctx); err == nil {
		m.alarms = alarms
	}
	if active, err := m.source.ActiveTimer(ctx); err == nil {
		m.active = active
	}
	m.speaking = ""
	if m.speech != nil {
		if text, ok := m.speech.Speaking(); ok {
			m.speaking = text
		}
	}
}

func (m model) titleStr() string {
	if t := m.active; t != nil {
		return fmt.Sprintf("%s | %s %s", appTitle, t.Label, domain.FormatClock(t.Remaining))
	}
	return appTitle
}

func (m model) View() string {
	if m.mode == ModeBubble {
		return m.renderBubble()
	}

	var b strings.Builder
	if m.speaking != "" {
		b.WriteString(speakingStyle.Render("◉ TRANSMITTING: " + m.speaking))
		b.WriteByte('\n')
	}
	if len(m.timers) > 0 || len(m.alarms) > 0 {
		b.WriteString(m.renderBar())
		b.WriteByte('\n')
	}

	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	var parts []string
	for _, t := range m.timers {
		parts = append(parts, renderTimer(t))
	}
	for _, a := range m.alarms {
		parts = append(parts, renderAlarm(a))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

func renderTimer(t *domain.Timer) string {
	loop := ""
	if t.Looping {
		loop = " ↻"
	}
	switch {
	case t.Active:
		return labelStyle.Render(t.Label+loop+": ") + timerRunStyle.Render(domain.FormatClock(t.Remaining))
	case t.Remaining <= 0:
		return timerDoneStyle.Render(t.Label + ": DONE")
	default:
		return timerPausedStyle.Render(t.Label + loop + ": paused " + domain.FormatClock(t.Remaining))
	}
}

func renderAlarm(a *domain.Alarm) string {
	text := "⏰ " + a.Time
	if a.Label != a.Time {
		text += " " + a.Label
	}
	if !a.Active {
		return timerPausedStyle.Render(text + " (off)")
	}
	return alarmStyle.Render(text)
}

// renderBubble is the compact view: one timer, one clock, one bar.
func (m model) renderBubble() string {
	t := m.active
	if t == nil {
		return bubbleStyle.Render(secondaryStyle.Render("no timer running")) + "\n" + m.input.View()
	}

	body := labelStyle.Render(t.Label) + "\n" +
		clockStyle.Render(domain.FormatClock(t.Remaining)) + "\n" +
		m.bar.ViewAs(t.Progress())
	if m.speaking != "" {
		body += "\n" + speakingStyle.Render("◉")
	}
	return bubbleStyle.Render(body) + "\n" + m.input.View()
}
