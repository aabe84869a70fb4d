// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar (step, language and
// voice state) and an input prompt at the bottom of the terminal. All
// application output is printed above the rendered area via
// Program.Println / Printf, ensuring concurrent writes never garble the
// display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	listeningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	transcriptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	voiceIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#86efac"))

	voiceOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// ── Output styles (soft palette) ──

	// BannerStyle is a muted green for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#86efac"))

	// Title: soft mint for page headers.
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	// Primary text: light zinc for page content.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text: dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Urgent: soft coral for errors.
	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// promptText is plain so the textinput width math stays correct.
const promptText = "agri> "

// Status is what the bottom bar shows. Labels arrive already translated.
type Status struct {
	Title      string // window title
	Step       string
	Language   string
	Voice      string // voice state label
	Supported  bool
	Listening  bool
	Transcript string
}

// StatusFunc is polled on every tick and after Refresh.
type StatusFunc func() Status

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking).  Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program  *tea.Program
	status   StatusFunc
	inputCh  chan string
	toggleCh chan struct{}
	readyCh  chan struct{}
	quitCh   chan struct{}
	secret   atomic.Bool
	done     atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(status StatusFunc) *UI {
	return &UI{
		status:   status,
		inputCh:  make(chan string, 16),
		toggleCh: make(chan struct{}, 1),
		readyCh:  make(chan struct{}),
		quitCh:   make(chan struct{}),
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
// The output is printed on its own line.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ToggleChan receives a value every time the voice key (Ctrl+V) is
// pressed. Presses made while a previous one is unread are coalesced.
func (u *UI) ToggleChan() <-chan struct{} { return u.toggleCh }

// SetSecret switches the prompt between normal and password echo.
func (u *UI) SetSecret(on bool) {
	u.secret.Store(on)
	u.send(secretMsg(on))
}

// Refresh re-reads the status immediately instead of waiting for the
// next tick.
func (u *UI) Refresh() { u.send(refreshMsg{}) }

func (u *UI) send(msg tea.Msg) {
	if u.program != nil && !u.done.Load() {
		go u.program.Send(msg)
	}
}

// ── Styled print helpers ─────────────────────────────────────────
// These give output visual hierarchy with lipgloss colors.

// PrintTitle prints a page header.
func (u *UI) PrintTitle(text string) {
	u.Println(titleStyle.Render("  " + text))
}

// PrintLines prints page content.
func (u *UI) PrintLines(lines []string) {
	for _, l := range lines {
		u.Println(primaryStyle.Render("  " + l))
	}
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintVoice prints a voice-recognised input line.
func (u *UI) PrintVoice(text string) {
	u.Println(secondaryStyle.Render("[voice] ") + primaryStyle.Render(text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	if u.secret.Load() {
		text = maskInput(text)
	}
	u.Println(promptStyle.Render("agri") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
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
	ti := textinput.New()
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.EchoCharacter = '•'
	if u.secret.Load() {
		ti.EchoMode = textinput.EchoPassword
	}
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		status:   u.status,
		input:    ti,
		inputCh:  u.inputCh,
		toggleCh: u.toggleCh,
		readyCh:  u.readyCh,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}
	if m.status != nil {
		m.current = m.status()
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	status   StatusFunc
	current  Status
	input    textinput.Model
	inputCh  chan<- string
	toggleCh chan struct{}
	readyCh  chan struct{}
	echoFn   func(string) // prints user input into scrollback
	width    int
}

// Messages.
type (
	tickMsg    time.Time
	refreshMsg struct{}
	secretMsg  bool
)

// tickInterval keeps the voice indicator responsive.
const tickInterval = 250 * time.Millisecond

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlV:
			select {
			case m.toggleCh <- struct{}{}:
			default:
			}
			return m, nil
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Print the echo from a Cmd, outside Update.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case secretMsg:
		if msg {
			m.input.EchoMode = textinput.EchoPassword
		} else {
			m.input.EchoMode = textinput.EchoNormal
		}
		return m, nil

	case refreshMsg:
		return m.refresh(), nil

	case tickMsg:
		m = m.refresh()
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(m.current.Title))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) refresh() model {
	if m.status != nil {
		m.current = m.status()
	}
	return m
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(renderBar(m.current, m.width))
	b.WriteByte('\n')
	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

// renderBar draws the status line for width columns (80 when unknown).
func renderBar(s Status, width int) string {
	var parts []string
	if s.Step != "" {
		parts = append(parts, labelStyle.Render(s.Step))
	}
	if s.Language != "" {
		parts = append(parts, labelStyle.Render(s.Language))
	}

	switch {
	case !s.Supported:
		parts = append(parts, voiceOffStyle.Render(s.Voice))
	case s.Listening:
		v := listeningStyle.Render("● " + s.Voice)
		if s.Transcript != "" {
			v += " " + transcriptStyle.Render("“"+s.Transcript+"”")
		}
		parts = append(parts, v)
	default:
		v := voiceIdleStyle.Render("○ "+s.Voice) + labelStyle.Render("  (Ctrl+V)")
		if s.Transcript != "" {
			v += " " + secondaryStyle.Render("“"+s.Transcript+"”")
		}
		parts = append(parts, v)
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	if width <= 0 {
		width = 80
	}
	return barBg.Width(width).Render(content)
}

// ── Helpers ──────────────────────────────────────────────────────

// maskInput hides all but the last four runes of a secret.
func maskInput(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", 8) + string(r[len(r)-4:])
}
