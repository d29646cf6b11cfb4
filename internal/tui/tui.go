// Package tui provides a Bubble Tea terminal user interface for bookshelf.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/bookshelf/internal/config"
	"github.com/handiism/bookshelf/internal/model"
	"github.com/handiism/bookshelf/internal/shelf"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
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

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// Focus says which part of the screen receives keys.
type Focus int

const (
	FocusList Focus = iota
	FocusForm
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   shelf.Level
}

const maxLogs = 5

// Model is the Bubble Tea model for the TUI.
type Model struct {
	coord *shelf.Coordinator
	ctx   context.Context

	focus  Focus
	books  []model.Book
	cursor int

	// form is the visible form; which one follows the edit slot.
	form form
	// stash holds the create draft while the edit form is shown.
	stash model.Draft

	spinner spinner.Model
	help    help.Model
	busy    int
	logs    []LogEntry
	err     error

	apiURL string
	width  int
	height int
}

// NewModel creates a new TUI model over coord. The initial load starts in
// Init.
func NewModel(ctx context.Context, coord *shelf.Coordinator, apiURL string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	return Model{
		coord:   coord,
		ctx:     ctx,
		focus:   FocusList,
		form:    newCreateForm(nil),
		spinner: sp,
		help:    help.New(),
		busy:    1,
		logs:    make([]LogEntry, 0),
		apiURL:  apiURL,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.spinner.Tick)
}

// Message types
type (
	// RefreshDoneMsg is sent when a standalone refresh completes.
	RefreshDoneMsg struct {
		Result shelf.Result
	}

	// MutationDoneMsg is sent when a create, update or delete completes,
	// including its follow-up refresh.
	MutationDoneMsg struct {
		Result shelf.Result
	}

	// EventMsg carries a coordinator event into the update loop.
	EventMsg struct {
		Event shelf.Event
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, forceQuit) {
			return m, tea.Quit
		}
		if m.focus == FocusForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)

	case spinner.TickMsg:
		if m.busy == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		if msg.Event.Level == shelf.LevelVerbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}
		return m, nil

	case RefreshDoneMsg:
		return m.finish(), nil

	case MutationDoneMsg:
		m = m.finish()
		if msg.Result.Op == shelf.OpCreate && msg.Result.OK() {
			// The draft is only discarded once the server has the book.
			if m.form.mode == shelf.ModeCreate {
				m.form = m.resetCreateForm()
			} else {
				m.stash = nil
			}
		}
		return m, nil
	}

	if m.focus == FocusForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, listKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, listKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, listKeys.Down):
		if m.cursor < len(m.books)-1 {
			m.cursor++
		}

	case key.Matches(msg, listKeys.Refresh):
		return m.start(m.refresh())

	case key.Matches(msg, listKeys.Edit):
		book, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.beginEdit(book)

	case key.Matches(msg, listKeys.Delete):
		book, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.start(m.delete(book.ID))

	case key.Matches(msg, listKeys.New):
		m.focus = FocusForm
		var cmd tea.Cmd
		m.form, cmd = m.form.focus()
		return m, cmd
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, formKeys.Next):
		m.form, cmd = m.form.move(1)
		return m, cmd

	case key.Matches(msg, formKeys.Prev):
		m.form, cmd = m.form.move(-1)
		return m, cmd

	case key.Matches(msg, formKeys.Back):
		if m.form.mode == shelf.ModeEdit {
			m.coord.CancelEdit()
			m = m.restoreCreateForm()
		}
		m.focus = FocusList
		m.form = m.form.blur()
		return m, nil

	case key.Matches(msg, formKeys.Submit):
		return m.submit()
	}

	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// submit checks required fields locally and only then issues the call.
func (m Model) submit() (tea.Model, tea.Cmd) {
	draft := m.form.draft()
	if err := draft.Validate(); err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.form.err = ""

	if m.form.mode == shelf.ModeEdit {
		return m.start(m.update(m.form.id, draft))
	}
	return m.start(m.create(draft))
}

func (m Model) beginEdit(book model.Book) (tea.Model, tea.Cmd) {
	if _, err := m.coord.BeginEdit(book.ID); err != nil {
		m.err = err
		return m, nil
	}

	if m.form.mode == shelf.ModeCreate {
		m.stash = m.form.draft()
	}
	m.form = newEditForm(book)
	m.focus = FocusForm

	var cmd tea.Cmd
	m.form, cmd = m.form.focus()
	return m, cmd
}

// start marks a request in flight and runs cmd alongside the spinner.
func (m Model) start(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy++
	if m.busy == 1 {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// finish records a completed request and resynchronizes with the
// coordinator: snapshot, last error and the edit slot.
func (m Model) finish() Model {
	if m.busy > 0 {
		m.busy--
	}

	m.books = m.coord.Store().Snapshot()
	if m.cursor >= len(m.books) {
		m.cursor = max(len(m.books)-1, 0)
	}
	m.err = m.coord.LastError()

	if m.form.mode == shelf.ModeEdit && !m.coord.Slot().IsEditing() {
		focused := m.focus == FocusForm
		m = m.restoreCreateForm()
		if focused {
			m.form, _ = m.form.focus()
		}
	}
	return m
}

func (m Model) restoreCreateForm() Model {
	m.form = newCreateForm(m.stash)
	m.stash = nil
	return m
}

func (m Model) resetCreateForm() form {
	f := newCreateForm(nil)
	if m.focus == FocusForm {
		f, _ = f.focus()
	}
	return f
}

func (m Model) selected() (model.Book, bool) {
	if m.cursor < 0 || m.cursor >= len(m.books) {
		return model.Book{}, false
	}
	return m.books[m.cursor], true
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📚 Bookshelf"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.apiURL))
	b.WriteString("\n\n")

	b.WriteString(m.viewList())
	b.WriteString("\n")
	b.WriteString(m.form.view(m.focus == FocusForm))
	b.WriteString("\n\n")

	b.WriteString(m.viewStatus())

	// Footer
	b.WriteString("\n")
	if m.focus == FocusForm {
		b.WriteString(m.help.View(formKeys))
	} else {
		b.WriteString(m.help.View(listKeys))
	}

	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Books (%d)", len(m.books))))
	b.WriteString("\n")

	if len(m.books) == 0 {
		b.WriteString(dimStyle.Render("  No books found."))
		b.WriteString("\n")
		return b.String()
	}

	editing, _ := m.coord.Slot().Current()
	for i, book := range m.books {
		marker := " "
		if book.ID == editing.ID {
			marker = "✎"
		}
		line := fmt.Sprintf("%s %s", marker, book)
		if i == m.cursor && m.focus == FocusList {
			b.WriteString(focusedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewStatus() string {
	var b strings.Builder

	if m.busy > 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(infoStyle.Render("Working..."))
		b.WriteString("\n")
	}

	b.WriteString(m.renderLogs())

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case shelf.LevelError:
			style = errorStyle
			prefix = "✗"
		case shelf.LevelWarning:
			style = warningStyle
			prefix = "!"
		case shelf.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case shelf.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) refresh() tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return RefreshDoneMsg{Result: coord.Refresh(ctx)}
	}
}

func (m Model) create(draft model.Draft) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return MutationDoneMsg{Result: coord.Create(ctx, draft)}
	}
}

func (m Model) update(id string, draft model.Draft) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return MutationDoneMsg{Result: coord.Update(ctx, id, draft)}
	}
}

func (m Model) delete(id string) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return MutationDoneMsg{Result: coord.Delete(ctx, id)}
	}
}

// Run starts the TUI application against settings.APIURL.
func Run(settings *config.Settings) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var p *tea.Program
	coord := shelf.New(settings, func(event shelf.Event) {
		p.Send(EventMsg{Event: event})
	})

	p = tea.NewProgram(NewModel(ctx, coord, settings.APIURL), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
