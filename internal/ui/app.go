package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stash/internal/logtail"
	"github.com/five82/stash/internal/memo"
	"github.com/five82/stash/internal/prefs"
)

// pane identifies which part of the board receives keys.
type pane int

const (
	paneInput pane = iota
	paneList
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Board        *memo.Board
	ThemeName    string
	PrefsPath    string
	ShowActivity bool
	LogPath      string // activity pane source; empty disables the pane
	Logger       *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	board     *memo.Board
	keys      keyMap
	prefsPath string
	logPath   string
	logger    *slog.Logger

	// Store binding
	changes *changeFeed

	// UI state
	theme        Theme
	width        int
	height       int
	ready        bool
	focus        pane
	showHelp     bool
	showActivity bool
	status       string

	// Data state
	state    memo.State
	selected int

	// Components
	input    textinput.Model
	activity viewport.Model
	records  []logtail.Record
}

// New creates a new Bubble Tea model bound to opts.Board. Call Close when
// the program exits to drop the store subscription.
func New(opts Options) Model {
	board := opts.Board
	if board == nil {
		board = memo.NewBoard(memo.Options{})
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	input := textinput.New()
	input.Placeholder = "Write a memo…"
	input.Prompt = "› "
	input.CharLimit = 280
	input.Focus()

	m := Model{
		board:        board,
		keys:         DefaultKeyMap(),
		prefsPath:    prefsPath,
		logPath:      opts.LogPath,
		logger:       logger,
		changes:      watch(board),
		theme:        GetTheme(themeName),
		showActivity: opts.ShowActivity && opts.LogPath != "",
		input:        input,
	}
	m.syncState()
	return m
}

// Close drops the model's subscription to the board and releases any
// command still waiting for a change.
func (m Model) Close() {
	if m.changes != nil {
		m.changes.Close()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		waitForChange(m.changes.C()),
	}
	if m.logPath != "" {
		cmds = append(cmds, readActivityCmd(m.logPath), activityTickCmd())
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
			m.activity = viewport.New(0, 0)
		}
		m.ready = true
		m.layout()
		return m, nil

	case changedMsg:
		m.syncState()
		return m, waitForChange(m.changes.C())

	case activityTickMsg:
		if !m.showActivity {
			return m, activityTickCmd()
		}
		return m, tea.Batch(readActivityCmd(m.logPath), activityTickCmd())

	case activityMsg:
		m.records = msg
		m.updateActivityViewport()
		return m, nil

	case activityErrMsg:
		m.logger.Warn("read activity log", "path", m.logPath, "error", msg.err)
		return m, nil
	}

	if m.focus == paneInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return m, nil
	}

	if m.focus == paneInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

// handleInputKey edits the draft. Every edit is written to the board.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if entry, ok := m.board.Submit(); ok {
			m.status = fmt.Sprintf("Saved memo %s", shortID(entry))
		} else {
			m.status = "Nothing to submit"
		}
		m.syncState()
		m.selected = len(m.state.Memos) - 1
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.Discard):
		m.board.Write("")
		m.syncState()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != m.state.Draft {
		m.board.Write(value)
		m.syncState()
	}
	return m, cmd
}

// handleListKey navigates and edits the memo list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.state.Memos)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(m.state.Memos) - 1
		m.clampSelection()

	case key.Matches(msg, m.keys.Delete):
		if entry, ok := m.selectedMemo(); ok && m.board.Remove(entry.ID) {
			m.status = fmt.Sprintf("Deleted memo %s", shortID(entry))
		}
		m.syncState()

	case key.Matches(msg, m.keys.Clear):
		m.board.Clear()
		m.status = "Board cleared"
		m.syncState()

	case key.Matches(msg, m.keys.ToggleActivity):
		if m.logPath == "" {
			m.status = "No log file configured"
			return m, nil
		}
		m.showActivity = !m.showActivity
		m.layout()
		m.savePrefs()
		if m.showActivity {
			return m, readActivityCmd(m.logPath)
		}

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.updateActivityViewport()
		m.savePrefs()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == paneInput {
		m.focus = paneList
		m.input.Blur()
		return
	}
	m.focus = paneInput
	m.input.Focus()
}

// syncState pulls the latest board state. Change notifications only signal
// that something changed; the board is always the source of truth.
func (m *Model) syncState() {
	m.state = m.board.State()
	if m.input.Value() != m.state.Draft {
		m.input.SetValue(m.state.Draft)
	}
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.state.Memos) {
		m.selected = len(m.state.Memos) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) selectedMemo() (memo.Entry, bool) {
	if m.selected < 0 || m.selected >= len(m.state.Memos) {
		return memo.Entry{}, false
	}
	return m.state.Memos[m.selected], true
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, ShowActivity: m.showActivity}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs", "path", m.prefsPath, "error", err)
	}
}

func shortID(e memo.Entry) string {
	return e.ID.String()[:8]
}

// Messages

type changedMsg struct{}

type activityTickMsg time.Time

type activityMsg []logtail.Record

type activityErrMsg struct{ err error }

// Commands

// changeFeed is a channel signalled after each committed board change.
// Signals coalesce: a pending signal covers any number of changes, so the
// listener never blocks the store.
type changeFeed struct {
	mu          sync.Mutex
	ch          chan struct{}
	closed      bool
	unsubscribe func()
}

func watch(board *memo.Board) *changeFeed {
	f := &changeFeed{ch: make(chan struct{}, 1)}
	f.unsubscribe = board.Subscribe(func(next, prev memo.State) {
		f.signal()
	})
	return f
}

// C returns the signal channel. It is closed by Close.
func (f *changeFeed) C() <-chan struct{} {
	return f.ch
}

func (f *changeFeed) signal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- struct{}{}:
	default:
	}
}

// Close unsubscribes and closes the channel. A pass already holding the
// listener is dropped under the lock instead of sending.
func (f *changeFeed) Close() {
	f.unsubscribe()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.ch)
}

// waitForChange blocks until ch is signalled. A closed channel yields no
// message.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func activityTickCmd() tea.Cmd {
	return tea.Tick(ActivityRefreshInterval, func(t time.Time) tea.Msg {
		return activityTickMsg(t)
	})
}

func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		records, err := logtail.ReadRecords(path, ActivityLineLimit)
		if err != nil {
			return activityErrMsg{err: err}
		}
		return activityMsg(records)
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	return err
}

// renderMain renders the full board.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	inputStyle := styles.Pane
	listStyle := styles.Pane
	if m.focus == paneInput {
		inputStyle = styles.FocusedPane
	} else {
		listStyle = styles.FocusedPane
	}

	l := m.computeLayout()
	input := inputStyle.Width(l.contentWidth - 2).Render(m.input.View())
	list := listStyle.Width(l.listWidth - 2).Height(l.listHeight - 2).Render(m.renderMemos(l.listWidth-4, l.listHeight-2))

	body := list
	if m.showActivity {
		activity := styles.Pane.Width(l.activityWidth - 2).Height(l.activityHeight - 2).Render(m.activity.View())
		if l.sideBySide {
			body = lipgloss.JoinHorizontal(lipgloss.Top, list, activity)
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, list, activity)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		input,
		body,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("stash")
	counts := styles.MutedText.Render(fmt.Sprintf("%d memos", len(m.state.Memos)))
	theme := styles.FaintText.Render(m.theme.Name)
	return styles.Header.Width(m.width).Render(title + "  " + counts + "  " + theme)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	line := m.renderShortHelp()
	if m.status != "" {
		line = styles.SuccessText.Render(m.status) + "  " + line
	}
	return line
}

// renderMemos renders the visible window of the memo list.
func (m Model) renderMemos(width, rows int) string {
	styles := m.theme.Styles()
	if len(m.state.Memos) == 0 {
		return styles.FaintText.Render("No memos yet. Type a memo and press enter.")
	}
	if rows < 1 {
		rows = 1
	}

	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(start+rows, len(m.state.Memos))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := m.state.Memos[i]
		prefix := fmt.Sprintf("%2d. ", i+1)
		suffix := ""
		if m.width >= LayoutTimestampWidth && !e.Created.IsZero() {
			suffix = "  " + e.Created.Format("15:04")
		}
		text := truncate(e.Text, width-len(prefix)-len(suffix))

		if i == m.selected && m.focus == paneList {
			lines = append(lines, styles.Selected.Width(width).Render(prefix+text+suffix))
			continue
		}
		lines = append(lines, styles.MutedText.Render(prefix)+styles.Text.Render(text)+styles.FaintText.Render(suffix))
	}
	return strings.Join(lines, "\n")
}

// renderActivity formats store events from the log for the activity pane.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	if len(m.records) == 0 {
		return styles.FaintText.Render("No activity yet.")
	}

	lines := make([]string, 0, len(m.records))
	for _, rec := range m.records {
		var b strings.Builder
		if !rec.Time.IsZero() {
			b.WriteString(styles.FaintText.Render(rec.Time.Format("15:04:05")))
			b.WriteString(" ")
		}
		if strings.HasPrefix(rec.Msg, "store.") {
			b.WriteString(styles.EventStyle(rec.Msg).Render(strings.TrimPrefix(rec.Msg, "store.")))
		} else {
			b.WriteString(styles.LevelStyle(rec.Level).Render(rec.Level))
			b.WriteString(" ")
			b.WriteString(styles.Text.Render(rec.Msg))
		}
		for _, a := range rec.Attrs {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(a.Key + "="))
			b.WriteString(styles.Text.Render(a.Value))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) updateActivityViewport() {
	if !m.ready {
		return
	}
	m.activity.SetContent(m.renderActivity())
	m.activity.GotoBottom()
}

type boardLayout struct {
	contentWidth   int
	listWidth      int
	listHeight     int
	activityWidth  int
	activityHeight int
	sideBySide     bool
}

// computeLayout splits the space below the header and input between the memo
// list and the activity pane.
func (m Model) computeLayout() boardLayout {
	const (
		headerHeight = 1
		footerHeight = 1
		inputHeight  = 3
	)
	l := boardLayout{contentWidth: max(m.width, 20)}
	body := max(m.height-headerHeight-footerHeight-inputHeight, 6)

	l.listWidth, l.listHeight = l.contentWidth, body
	if !m.showActivity {
		return l
	}

	if m.width >= LayoutSideBySideWidth {
		l.sideBySide = true
		l.listWidth = l.contentWidth / 2
		l.activityWidth = l.contentWidth - l.listWidth
		l.activityHeight = body
		return l
	}

	l.listHeight = body / 2
	l.activityWidth = l.contentWidth
	l.activityHeight = body - l.listHeight
	return l
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	l := m.computeLayout()
	m.input.Width = max(l.contentWidth-8, 10)
	m.activity.Width = max(l.activityWidth-4, 0)
	m.activity.Height = max(l.activityHeight-2, 0)
	m.updateActivityViewport()
}

func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
