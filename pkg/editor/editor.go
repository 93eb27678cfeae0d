// Package editor is a terminal grid editor for inflection tables.
package editor

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/japaniel/paradigm/pkg/inflection"
	"github.com/japaniel/paradigm/pkg/table"
)

// Table is the value the editor works on.
type Table = table.Value[inflection.CellData]

// SaveFunc persists the edited table and returns it as stored, e.g. with
// new form ids filled in.
type SaveFunc func(Table) (Table, error)

// StatusMsg replaces the status line text.
type StatusMsg string

type savedMsg struct {
	value Table
	err   error
}

// Model is the bubbletea model of the grid editor.
type Model struct {
	name  string
	value Table
	save  SaveFunc
	// copy writes to the system clipboard; tests replace it.
	copy func(string) error

	input     textinput.Model
	editing   bool
	cellWidth int
	width     int

	status string
	dirty  bool
	// saving is set while a save runs. The grid ignores keys until it
	// finishes, since the result replaces the value.
	saving   bool
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithCellWidth sets the width of one grid column in terminal cells.
func WithCellWidth(w int) Option {
	return func(m *Model) {
		if w > 3 {
			m.cellWidth = w
		}
	}
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copy = write }
}

// New creates an editor for the table called name. save may be nil, in
// which case the table cannot be saved.
func New(name string, v Table, save SaveFunc, opts ...Option) *Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Prompt = "> "
	m := &Model{
		name:      name,
		value:     v,
		save:      save,
		copy:      clipboard.WriteAll,
		input:     ti,
		cellWidth: 14,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Value returns the table as currently edited.
func (m *Model) Value() Table { return m.value }

// Dirty reports whether there are unsaved edits.
func (m *Model) Dirty() bool { return m.dirty }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case StatusMsg:
		m.status = string(msg)
		return m, nil

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = "Save failed: " + msg.err.Error()
			return m, nil
		}
		m.value = msg.value
		m.dirty = false
		m.status = fmt.Sprintf("Saved %s", m.name)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitEdit()
		return m, nil
	case "esc":
		m.editing = false
		m.input.Blur()
		m.status = "Edit canceled"
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) commitEdit() {
	m.editing = false
	m.input.Blur()
	cell := m.value.FocusedCell()
	data := cell.Data
	data.Text = m.input.Value()
	m.apply(m.value.SetCellData(cell.Key, data))
}

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	focus, _ := m.value.Layout().CellFromKey(m.value.Selection().FocusedCellKey())

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	}
	if m.saving {
		m.status = "Saving…"
		return m, nil
	}

	switch msg.String() {
	case "up":
		m.move(table.Prev, table.None, false)
	case "down":
		m.move(table.Next, table.None, false)
	case "left":
		m.move(table.None, table.Prev, false)
	case "right":
		m.move(table.None, table.Next, false)
	case "shift+up":
		m.move(table.Prev, table.None, true)
	case "shift+down":
		m.move(table.Next, table.None, true)
	case "shift+left":
		m.move(table.None, table.Prev, true)
	case "shift+right":
		m.move(table.None, table.Next, true)
	case "home":
		m.move(table.None, table.First, false)
	case "end":
		m.move(table.None, table.Last, false)
	case "pgup":
		m.move(table.First, table.None, false)
	case "pgdown":
		m.move(table.Last, table.None, false)

	case "enter":
		m.editing = true
		m.input.SetValue(m.value.FocusedCell().Data.Text)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "t":
		cell := m.value.FocusedCell()
		m.apply(m.value.SetCellHeader(cell.Key, !cell.Header))
	case "d":
		cell := m.value.FocusedCell()
		if cell.Header {
			m.status = "Header cells are not derived"
			break
		}
		data := cell.Data
		data.DeriveLemma = !data.DeriveLemma
		m.apply(m.value.SetCellData(cell.Key, data))

	case "ctrl+r":
		m.apply(m.value.InsertRow(focus.LastRow() + 1))
	case "ctrl+k":
		m.apply(m.value.DeleteRow(focus.Row))
	case "ctrl+l":
		m.apply(m.value.InsertColumn(focus.LastCol() + 1))
	case "ctrl+x":
		m.apply(m.value.DeleteColumn(focus.Col))

	case "y":
		return m, m.yank()
	case "ctrl+s":
		return m, m.saveCmd()
	}
	return m, nil
}

func (m *Model) move(dRow, dCol table.Delta, extend bool) {
	v, err := table.Move(m.value, dRow, dCol, extend)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.value = v
}

// apply installs the result of an edit or reports why it was refused.
func (m *Model) apply(v Table, err error) {
	switch {
	case errors.Is(err, table.ErrLastRow):
		m.status = "Cannot delete the last row"
	case errors.Is(err, table.ErrLastColumn):
		m.status = "Cannot delete the last column"
	case err != nil:
		m.status = err.Error()
	default:
		m.value = v
		m.dirty = true
	}
}

func (m *Model) yank() tea.Cmd {
	text := SelectionTSV(m.value)
	n := len(m.value.SelectedCells())
	write := m.copy
	return func() tea.Msg {
		if err := write(text); err != nil {
			return StatusMsg("Copy failed: " + err.Error())
		}
		return StatusMsg(fmt.Sprintf("%d cells → clipboard", n))
	}
}

func (m *Model) saveCmd() tea.Cmd {
	if m.save == nil {
		return func() tea.Msg { return StatusMsg("Saving is not available") }
	}
	m.saving = true
	m.status = "Saving…"
	v, save := m.value, m.save
	return func() tea.Msg {
		stored, err := save(v)
		return savedMsg{value: stored, err: err}
	}
}
