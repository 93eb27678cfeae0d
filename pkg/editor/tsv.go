package editor

import "strings"

// SelectionTSV renders the selected rectangle as tab separated values. A
// spanning cell's text appears at its top-left slot only; its other slots
// are empty.
func SelectionTSV(v Table) string {
	l := v.Layout()
	sel := v.Selection()
	var b strings.Builder
	for r := sel.MinRow(); r <= sel.MaxRow(); r++ {
		for c := sel.MinCol(); c <= sel.MaxCol(); c++ {
			if c > sel.MinCol() {
				b.WriteByte('\t')
			}
			desc := l.CellFromPosition(r, c)
			if desc.Row != r || desc.Col != c {
				continue
			}
			cell, _ := v.Cell(desc.Key)
			b.WriteString(sanitizeTSV(cell.Data.Text))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func sanitizeTSV(s string) string { return tsvReplacer.Replace(s) }
