package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/phonecat/internal/logtail"
)

// logLevels is the cycle order of the overlay's level filter.
var logLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

// logState holds the diagnostics overlay state.
type logState struct {
	lines    []string // raw lines from the last read
	entries  []logtail.Entry
	minLevel slog.Level
	err      error
	loaded   bool
	viewport viewport.Model
}

func newLogState() logState {
	return logState{minLevel: slog.LevelInfo}
}

type logLoadedMsg struct {
	lines []string
	err   error
}

// loadLogs reads the tail of the log file off the update loop.
func (m Model) loadLogs() tea.Cmd {
	path := m.logFile
	return func() tea.Msg {
		if path == "" {
			return logLoadedMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logLoadedMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLoaded(msg logLoadedMsg) {
	m.logs.loaded = true
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.lines = msg.lines
	}
	m.refilterLogs()
	m.logs.viewport.GotoBottom()
}

// refilterLogs reparses the raw lines at the current level and redraws.
func (m *Model) refilterLogs() {
	m.logs.entries = logtail.ParseLines(m.logs.lines, m.logs.minLevel)
	m.renderLogContent()
}

func (m *Model) renderLogContent() {
	if len(m.logs.entries) == 0 {
		m.logs.viewport.SetContent(m.theme.Styles().FaintText.Render("No log entries at " + m.logs.minLevel.String() + " or above."))
		return
	}
	var b strings.Builder
	for i, e := range m.logs.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.levelStyle(e.Level).Render(formatLogEntry(e)))
	}
	m.logs.viewport.SetContent(b.String())
}

func (m Model) levelStyle(level slog.Level) lipgloss.Style {
	styles := m.theme.Styles()
	switch {
	case level >= slog.LevelError:
		return styles.DangerText
	case level >= slog.LevelWarn:
		return styles.WarningText
	case level >= slog.LevelInfo:
		return styles.Text
	default:
		return styles.FaintText
	}
}

// logViewportHeight leaves room for the title and status lines.
func (m Model) logViewportHeight() int {
	return max(m.height-2, 1)
}

func (m *Model) initLogViewport() {
	m.logs.viewport = viewport.New(m.width, m.logViewportHeight())
}

func (m *Model) resizeLogViewport() {
	m.logs.viewport.Width = m.width
	m.logs.viewport.Height = m.logViewportHeight()
}

// renderLogs renders the diagnostics overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	title := []string{
		bg.Render("Diagnostics", styles.Logo),
		bg.Render(truncateMiddle(m.logFile, 60), styles.MutedText),
	}

	var status []string
	switch {
	case m.logFile == "":
		status = append(status, bg.Render("logging disabled", styles.WarningText))
	case m.logs.err != nil:
		status = append(status, bg.Render("read failed: "+m.logs.err.Error(), styles.DangerText))
	case !m.logs.loaded:
		status = append(status, bg.Render("reading...", styles.WarningText))
	default:
		status = append(status, bg.Render(fmt.Sprintf("%d of %d lines", len(m.logs.entries), len(m.logs.lines)), styles.MutedText))
	}
	status = append(status,
		bg.Render("f", styles.AccentText)+bg.Render(" level "+m.logs.minLevel.String(), styles.MutedText),
		bg.Render("r", styles.AccentText)+bg.Render(" reload", styles.MutedText),
		bg.Render("esc", styles.AccentText)+bg.Render(" close", styles.MutedText),
	)
	if pct := m.logs.viewport.ScrollPercent(); m.logs.loaded && len(m.logs.entries) > 0 {
		status = append(status, bg.Render(fmt.Sprintf("%3.0f%%", pct*100), styles.FaintText))
	}

	var b strings.Builder
	b.WriteString(styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(title, "  ")))
	b.WriteString("\n")
	b.WriteString(m.logs.viewport.View())
	b.WriteString("\n")
	b.WriteString(styles.Footer.Width(m.width).MaxHeight(1).Render(bg.Join(status, "  ")))
	return b.String()
}

// handleLogsKey processes input while the diagnostics overlay is open.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs):
		m.overlay = overlayNone
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.LogLevel):
		m.logs.minLevel = nextLogLevel(m.logs.minLevel)
		m.refilterLogs()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.logs.loaded = false
		cmd := m.loadLogs()
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	return m, cmd
}

func nextLogLevel(current slog.Level) slog.Level {
	for i, l := range logLevels {
		if l == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return slog.LevelInfo
}
