package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/phonecat/internal/config"
	"github.com/five82/phonecat/internal/prefs"
	"github.com/five82/phonecat/internal/present"
	"github.com/five82/phonecat/internal/query"
	"github.com/five82/phonecat/internal/state"
)

// overlay is the modal drawn over the grid, if any.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayDetail
	overlayLogs
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Dispatcher   *query.Dispatcher
	Store        *state.Store
	Logger       *slog.Logger
	QuickFilters []config.QuickFilter
	LogFile      string
	APIURL       string
	Prefs        prefs.Prefs
	PrefsPath    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	dispatcher   *query.Dispatcher
	store        *state.Store
	logger       *slog.Logger
	quickFilters []config.QuickFilter
	logFile      string
	apiURL       string
	prefs        prefs.Prefs
	prefsPath    string
	keys         keyMap

	// UI state
	theme   Theme
	width   int
	height  int
	ready   bool
	overlay overlay
	flash   string // transient input error shown in the footer

	// Data state
	snapshot state.Snapshot
	view     present.View

	// Grid state
	selected int
	grid     viewport.Model
	spinner  spinner.Model

	// Prompt state
	prompting  bool
	promptKind query.Kind
	prompt     textinput.Model

	// Log overlay
	logs logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Defaults()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(userPrefs.Theme)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	m := Model{
		ctx:          ctx,
		dispatcher:   opts.Dispatcher,
		store:        opts.Store,
		logger:       logger,
		quickFilters: opts.QuickFilters,
		logFile:      opts.LogFile,
		apiURL:       opts.APIURL,
		prefs:        userPrefs,
		prefsPath:    prefsPath,
		keys:         DefaultKeyMap(),
		theme:        theme,
		spinner:      s,
		prompt:       ti,
		logs:         newLogState(),
	}
	m.sync()
	return m
}

// Init implements tea.Model. The startup list query is issued here so the
// first frame already shows the loading state.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(DefaultUIInterval),
	}
	if m.dispatcher != nil {
		cmds = append(cmds, awaitCmd(m.dispatcher.Dispatch(m.ctx, query.LoadDefault())))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.grid = viewport.New(msg.Width, m.bodyHeight())
			m.initLogViewport()
		}
		m.ready = true
		m.resize()
		return m, nil

	case settledMsg:
		m.settle(state.Settlement(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		// Re-render only; the header shows a relative timestamp.
		return m, tickCmd(DefaultUIInterval)

	case logLoadedMsg:
		m.handleLogLoaded(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.overlay {
	case overlayHelp:
		return m.renderHelp()
	case overlayDetail:
		return m.renderDetail()
	case overlayLogs:
		return m.renderLogs()
	}

	return m.renderMain()
}

// settle applies a finished query. Settlements for superseded queries are
// dropped by the store.
func (m *Model) settle(st state.Settlement) {
	if m.store == nil {
		return
	}
	applied := m.store.Settle(st)
	m.sync()
	if !applied {
		return
	}
	if _, ok := st.Outcome.(state.Ok); ok {
		m.selected = 0
		m.grid.GotoTop()
	}
	m.renderGrid()
}

// sync refreshes the snapshot and derived view from the store.
func (m *Model) sync() {
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	m.view = present.Map(m.snapshot)
	if m.selected >= len(m.view.Cards) {
		m.selected = max(len(m.view.Cards)-1, 0)
	}
}

// dispatch issues in and returns the command that waits for its settlement.
func (m *Model) dispatch(in query.Intent) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	m.flash = ""
	pending := m.dispatcher.Dispatch(m.ctx, in)
	m.logger.Debug("query dispatched",
		"generation", pending.Generation,
		"mode", pending.Query.Mode.String(),
		"param", pending.Query.Param,
		"page", pending.Query.Page)
	m.sync()
	m.renderGrid()
	return awaitCmd(pending)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.prompting {
		return m.handlePromptKey(msg)
	}

	switch m.overlay {
	case overlayHelp:
		// Any key closes help.
		m.overlay = overlayNone
		return m, nil
	case overlayDetail:
		return m.handleDetailKey(msg)
	case overlayLogs:
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		cmd := m.openPrompt(query.KindSearch, m.prefs.LastSearch)
		return m, cmd
	case key.Matches(msg, m.keys.Brand):
		cmd := m.openPrompt(query.KindBrand, "")
		return m, cmd
	case key.Matches(msg, m.keys.Type):
		cmd := m.openPrompt(query.KindType, "")
		return m, cmd
	case key.Matches(msg, m.keys.Price):
		cmd := m.openPrompt(query.KindPrice, "")
		return m, cmd
	case key.Matches(msg, m.keys.GoToPage):
		cmd := m.openPrompt(query.KindPage, "")
		return m, cmd

	case key.Matches(msg, m.keys.QuickFilter):
		cmd := m.applyQuickFilter(int(msg.String()[0] - '1'))
		return m, cmd

	case key.Matches(msg, m.keys.Reset):
		cmd := m.dispatch(query.LoadDefault())
		return m, cmd

	case key.Matches(msg, m.keys.NextPage):
		if in, ok := query.NextPage(m.snapshot); ok {
			cmd := m.dispatch(in)
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevPage):
		if in, ok := query.PrevPage(m.snapshot); ok {
			cmd := m.dispatch(in)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.selectedCard(); ok {
			m.overlay = overlayDetail
		}
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.overlay = overlayLogs
		cmd := m.loadLogs()
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		m.flash = ""
		return m, nil
	}

	return m.handleGridKey(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.dispatcher != nil {
		m.dispatcher.Cancel()
	}
	return m, tea.Quit
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
	m.renderGrid()
	if m.logs.loaded {
		m.renderLogContent()
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// applyQuickFilter dispatches the configured quick filter at index i.
func (m *Model) applyQuickFilter(i int) tea.Cmd {
	if i < 0 || i >= len(m.quickFilters) {
		return nil
	}
	in, err := quickFilterIntent(m.quickFilters[i])
	if err != nil {
		m.flash = err.Error()
		return nil
	}
	return m.dispatch(in)
}

// bodyHeight is the number of lines available to the grid.
func (m Model) bodyHeight() int {
	return max(m.height-chromeHeight, 1)
}

func (m *Model) resize() {
	m.grid.Width = m.width
	m.grid.Height = m.bodyHeight()
	m.renderGrid()
	m.resizeLogViewport()
}

// renderMain renders header, command bar, body and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Messages

type tickMsg time.Time

type settledMsg state.Settlement

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// awaitCmd performs the pending request off the update loop. The result
// re-enters Update as a settledMsg.
func awaitCmd(p query.Pending) tea.Cmd {
	return func() tea.Msg {
		return settledMsg(p.Await())
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if ctx := opts.Context; ctx != nil {
		stop := context.AfterFunc(ctx, p.Quit)
		defer stop()
	}
	_, err := p.Run()
	return err
}
