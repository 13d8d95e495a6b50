// Package tui provides a Bubble Tea terminal user interface for loudgain.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CartoonFan/loudgain/internal/config"
	"github.com/CartoonFan/loudgain/internal/logging"
	"github.com/CartoonFan/loudgain/internal/loudness"
	"github.com/CartoonFan/loudgain/internal/model"
	"github.com/CartoonFan/loudgain/internal/report"
	"github.com/CartoonFan/loudgain/internal/scan"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is how many status lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateComplete
	StateError
)

// LogEntry represents a status line in the UI.
type LogEntry struct {
	Message string
	Level   scan.ProgressLevel
}

// runFunc starts a scan of files and returns its outcome. It reports
// status lines through onProgress and the report through out.
type runFunc func(ctx context.Context, files []string, opts scan.Options, out io.Writer, onProgress func(scan.ProgressEvent)) error

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	run       runFunc
	logs      []LogEntry
	files     []string
	report    string
	err       error

	// Scan context
	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	// Scan progress
	scanned int
	total   int

	// Options
	album     bool
	noClip    bool
	writeTags bool

	width  int
	height int
}

// NewModel creates a new TUI model using settings.
func NewModel(settings *config.Settings, logger *slog.Logger) Model {
	return newModel(settings, func(ctx context.Context, files []string, opts scan.Options, out io.Writer, onProgress func(scan.ProgressEvent)) error {
		meter := loudness.NewFFmpegMeter(settings.FFmpegPath, settings.FFprobePath, logger)
		return scan.NewDefaultManager(settings, meter, opts, out, onProgress, logger).Run(ctx, files)
	})
}

func newModel(settings *config.Settings, run runFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "~/Music/Artist/Album or *.flac"
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		run:       run,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every status line of a running scan.
	ProgressMsg struct {
		Event scan.ProgressEvent
	}

	// ScanDoneMsg is sent when the scan finishes.
	ScanDoneMsg struct {
		Report string
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateScanning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				files, err := ExpandInput(m.textInput.Value())
				if err != nil {
					m.state = StateError
					m.err = err
					return m, nil
				}
				m.files = files
				m.total = len(files)
				m.state = StateScanning
				cmd := m.startScan()
				return m, tea.Batch(cmd, m.spinner.Tick)
			}

		case "alt+a":
			if m.state == StateInput {
				m.album = !m.album
				return m, nil
			}

		case "alt+k":
			if m.state == StateInput {
				m.noClip = !m.noClip
				return m, nil
			}

		case "alt+w":
			if m.state == StateInput {
				m.writeTags = !m.writeTags
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new scan
				m.state = StateInput
				m.logs = nil
				m.files = nil
				m.report = ""
				m.err = nil
				m.scanned = 0
				m.total = 0
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Total > 0 {
			m.scanned = msg.Event.Index + 1
			m.total = msg.Event.Total
			cmds = append(cmds, m.progress.SetPercent(m.percent()))
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}
		cmds = append(cmds, waitForEvent(m.events))

	case ScanDoneMsg:
		m.report = msg.Report
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.scanned) / float64(m.total)
}

// Options returns the scan options selected in the UI.
func (m Model) Options() scan.Options {
	mode := model.TagSkip
	if m.writeTags {
		mode = model.TagWrite
	}
	return scan.Options{
		Album:    m.album,
		NoClip:   m.noClip,
		WarnClip: true,
		TagMode:  mode,
		Output:   report.Human,
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("loudgain"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("ReplayGain 2.0 from EBU R128 loudness"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Files, directory or glob pattern:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Album gain (alt+a)\n", check(m.album)))
	b.WriteString(fmt.Sprintf("  %s Prevent clipping (alt+k)\n", check(m.noClip)))
	b.WriteString(fmt.Sprintf("  %s Write ReplayGain tags (alt+w)\n", check(m.writeTags)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Reference loudness: %.2f LUFS", m.settings.ReferenceLoudness)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Scanning %d file(s)...", len(m.files))))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.scanned, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("✨ Scanned %d file(s)", len(m.files))))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(strings.TrimSpace(m.report)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case scan.LevelError:
			style = errorStyle
			prefix = "✘"
		case scan.LevelWarning:
			style = warningStyle
			prefix = "!"
		case scan.LevelInfo:
			style = infoStyle
			prefix = "✔"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: scan • alt+a: album • alt+k: noclip • alt+w: write tags • esc: quit"
	case StateScanning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new scan • q: quit"
	}
	return ""
}

// startScan runs the scan on a background goroutine. Status lines and
// the final result arrive as messages on m.events.
func (m *Model) startScan() tea.Cmd {
	events := make(chan tea.Msg, 64)
	m.events = events

	ctx, files, opts, run := m.ctx, m.files, m.Options(), m.run
	go func() {
		var out syncBuffer
		err := run(ctx, files, opts, &out, func(event scan.ProgressEvent) {
			events <- ProgressMsg{Event: event}
		})
		events <- ScanDoneMsg{Report: out.String(), Err: err}
	}()

	return waitForEvent(events)
}

// waitForEvent returns a command delivering the next scan message.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return <-events
	}
}

// syncBuffer is a strings.Builder safe for use from the scan goroutine
// and the UI.
type syncBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// Run starts the TUI application. Settings are read from the default
// configuration file; diagnostics go to the configured log file only.
func Run() error {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.Discard()
	if settings.LogFile != "" {
		var closer io.Closer
		logger, closer = logging.New(logging.Config{
			Level:    settings.LogLevel,
			Format:   "json",
			FilePath: settings.LogFile,
		}, io.Discard)
		defer closer.Close()
	}

	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
