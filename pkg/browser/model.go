// Package browser hosts a selection controller in a terminal UI. Rows are
// drawn as a grid of cards; keyboard and mouse activations are dispatched
// through the event delegator so the controller sees exactly the events a
// browser would deliver.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"golang.org/x/net/html"

	"github.com/marcus/mbrowse/internal/dom"
	"github.com/marcus/mbrowse/internal/selection"
	"github.com/marcus/mbrowse/pkg/browser/mouse"
)

const (
	cardHeight     = 3
	minCardWidth   = 8
	reservedLines  = 4 // header, banner, filter, help
	defaultColumns = 3
)

// Result is what the user left the browser with.
type Result struct {
	UUID      string   `json:"uuid"`
	Selected  []string `json:"selected"`
	Cancelled bool     `json:"cancelled"`
}

type card struct {
	node  *html.Node
	id    string
	label string
}

// Option configures a Model.
type Option func(*Model)

// WithColumns sets the number of cards per grid row.
func WithColumns(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.columns = n
		}
	}
}

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithClipboard replaces the function used to copy selected ids.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copy = write }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctrl   *selection.Controller
	events *dom.Delegator
	keys   KeyMap
	help   help.Model
	mouse  *mouse.Handler

	title         string
	columns       int
	width, height int

	cards   []card
	visible []int // indexes into cards, in display order
	cursor  int   // index into visible
	offset  int   // first grid row on screen

	filtering bool
	filter    textinput.Model

	showHelp bool
	helpView viewport.Model

	copy   func(string) error
	status string

	result Result
	done   bool
}

// New builds a model for an attached controller. The controller must be
// bound to d.
func New(ctrl *selection.Controller, d *dom.Delegator, opts ...Option) Model {
	m := Model{
		ctrl:    ctrl,
		events:  d,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		mouse:   mouse.NewHandler(),
		copy:    clipboard.WriteAll,
		title:   "Entity browser",
		columns: defaultColumns,
		width:   80,
		height:  24,
	}
	for _, opt := range opts {
		opt(&m)
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter"
	m.filter = ti

	for _, item := range ctrl.Items() {
		m.cards = append(m.cards, card{
			node:  item,
			id:    selection.ItemID(item),
			label: cardLabel(item),
		})
	}
	m.applyFilter("")
	return m
}

func cardLabel(item *html.Node) string {
	label := strings.Join(strings.Fields(dom.Text(item)), " ")
	if label == "" {
		return selection.ItemID(item)
	}
	return label
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Result returns the outcome once the program has finished.
func (m Model) Result() Result {
	return m.result
}

// Done reports whether the user accepted or cancelled.
func (m Model) Done() bool {
	return m.done
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.showHelp {
			m.helpView = newHelpViewport(m.width, m.height-1)
		}
		m.ensureCursorVisible()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case m.showHelp:
			return m.handleHelpKey(msg)
		case m.filtering:
			return m.handleFilterKey(msg)
		default:
			return m.handleKey(msg)
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Up):
		m.move(-m.columns)
	case key.Matches(msg, m.keys.Down):
		m.move(m.columns)
	case key.Matches(msg, m.keys.Left):
		m.move(-1)
	case key.Matches(msg, m.keys.Right):
		m.move(1)
	case key.Matches(msg, m.keys.Toggle):
		m.activate(m.cursor, dom.EventClick)
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView = newHelpViewport(m.width, m.height-1)
	case key.Matches(msg, m.keys.Accept):
		return m.finish(false)
	case key.Matches(msg, m.keys.Cancel):
		if msg.Type == tea.KeyEsc && m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter("")
			return m, nil
		}
		return m.finish(true)
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter("")
		return m, nil
	case tea.KeyCtrlC:
		return m.finish(true)
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter(m.filter.Value())
	return m, cmd
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Accept) {
		m.showHelp = false
		return m, nil
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}

	action := m.mouse.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return m, nil
		}
		idx, ok := action.Region.Data.(int)
		if !ok {
			return m, nil
		}
		m.cursor = idx
		typ := dom.EventClick
		if action.Type == mouse.ActionDoubleClick {
			typ = dom.EventDblClick
		}
		m.activate(idx, typ)
	case mouse.ActionScrollUp:
		m.scroll(-1)
	case mouse.ActionScrollDown:
		m.scroll(1)
	}
	return m, nil
}

// activate dispatches an event of type typ on the card at display
// position idx.
func (m *Model) activate(idx int, typ string) {
	if idx < 0 || idx >= len(m.visible) {
		return
	}
	m.events.Dispatch(m.cards[m.visible[idx]].node, typ)
}

// copySelected writes the selected ids, one per line, to the clipboard.
func (m *Model) copySelected() {
	ids := m.ctrl.SelectedIDs()
	if len(ids) == 0 {
		m.status = "Nothing selected"
		return
	}
	if err := m.copy(strings.Join(ids, "\n")); err != nil {
		m.status = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("Copied %d ids", len(ids))
}

func (m Model) finish(cancelled bool) (tea.Model, tea.Cmd) {
	m.done = true
	m.result = Result{UUID: m.ctrl.UUID(), Cancelled: cancelled}
	if !cancelled {
		m.result.Selected = m.ctrl.SelectedIDs()
	}
	return m, tea.Quit
}

func (m *Model) applyFilter(query string) {
	m.visible = m.visible[:0]
	if query == "" {
		for i := range m.cards {
			m.visible = append(m.visible, i)
		}
	} else {
		labels := make([]string, len(m.cards))
		for i, c := range m.cards {
			labels[i] = c.label
		}
		for _, match := range fuzzy.Find(query, labels) {
			m.visible = append(m.visible, match.Index)
		}
	}
	m.cursor = 0
	m.offset = 0
}

func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.visible) {
		return
	}
	m.cursor = next
	m.ensureCursorVisible()
}

func (m *Model) gridRows() int {
	return (len(m.visible) + m.columns - 1) / m.columns
}

func (m *Model) visibleRows() int {
	rows := (m.height - reservedLines) / cardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) ensureCursorVisible() {
	row := m.cursor / m.columns
	rows := m.visibleRows()
	if row < m.offset {
		m.offset = row
	} else if row >= m.offset+rows {
		m.offset = row - rows + 1
	}
}

func (m *Model) scroll(delta int) {
	maxOffset := m.gridRows() - m.visibleRows()
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.offset += delta
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Run starts an interactive program and blocks until the user accepts or
// cancels.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Result, error) {
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts...)

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return Result{}, err
	}
	fm, ok := final.(Model)
	if !ok {
		return Result{}, fmt.Errorf("browser: unexpected model %T", final)
	}
	return fm.Result(), nil
}
