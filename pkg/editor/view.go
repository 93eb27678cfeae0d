package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/japaniel/paradigm/pkg/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))
	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))
	spanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("238"))
	focusedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("170")).
			Foreground(lipgloss.Color("255")).
			Bold(true)
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

const help = "arrows move · shift+arrows select · enter edit · t header · d derive · " +
	"ctrl+r/ctrl+k row · ctrl+l/ctrl+x column · y copy · ctrl+s save · q quit"

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	title := m.name
	if m.dirty {
		title += " *"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if line := m.statusLine(); line != "" {
		b.WriteString(statusStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m *Model) statusLine() string {
	sel := m.value.Selection()
	desc := sel.Describe()
	if desc == "" {
		cell := m.value.FocusedCell()
		kind := "data"
		if cell.Header {
			kind = "header"
		} else if !cell.Data.DeriveLemma {
			kind = "data, not derived"
		}
		desc = fmt.Sprintf("row %d, column %d (%s). ", sel.MinRow()+1, sel.MinCol()+1, kind)
	}
	return strings.TrimSpace(desc + m.status)
}

// renderGrid draws every grid row. A spanning cell is drawn once at its
// top-left slot, as wide as its columns; rows it continues into show a
// marker instead.
func (m *Model) renderGrid() string {
	l := m.value.Layout()
	sel := m.value.Selection()
	focus := sel.FocusedCellKey()

	var b strings.Builder
	for r := 0; r < l.RowCount(); r++ {
		for c := 0; c < l.ColCount(); {
			desc := l.CellFromPosition(r, c)
			w := m.slotWidth(desc)
			var text string
			style := cellStyle
			if desc.Row == r {
				cell, _ := m.value.Cell(desc.Key)
				text = cell.Data.Text
				if cell.Header {
					style = headerStyle
				}
			} else {
				text = "┆"
				style = spanStyle
			}
			switch {
			case desc.Key == focus:
				style = focusedStyle
			case sel.Contains(r, c):
				style = style.Background(selectedStyle.GetBackground())
			}
			b.WriteString(style.Width(w).MaxWidth(w).Render(truncate.StringWithTail(text, uint(w), "…")))
			b.WriteString(" ")
			c = desc.LastCol() + 1
		}
		b.WriteString("\n")
	}
	return b.String()
}

// slotWidth is the drawn width of a cell: its columns plus the gaps
// between them.
func (m *Model) slotWidth(desc *layout.CellLayout) int {
	return desc.ColumnSpan*m.cellWidth + desc.ColumnSpan - 1
}
