package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/paradigm/internal/cli"
	"github.com/japaniel/paradigm/pkg/inflection"
	"github.com/japaniel/paradigm/pkg/store"
	"github.com/japaniel/paradigm/pkg/table"
)

type showResult struct {
	Name  string                `json:"name" yaml:"name"`
	Stems []string              `json:"stems" yaml:"stems"`
	Rows  []inflection.RowInput `json:"rows" yaml:"rows"`
}

func newShowCommand(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Display a stored inflection table",
		Long: `Display a stored inflection table as a grid. With -o json or -o yaml the
table is printed as a definition that "paradigm save" accepts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			loaded, err := store.LoadTable(conn, args[0])
			if err != nil {
				return err
			}
			if a.structured() {
				return a.output(cmd.OutOrStdout(), showResult{
					Name:  loaded.Table.Name,
					Stems: loaded.Stems,
					Rows:  loaded.Rows,
				})
			}

			v, err := inflection.NewTableValue(loaded.Rows, table.SequentialKeys("c"))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Table: %s\n", loaded.Table.Name)
			if len(loaded.Stems) > 0 {
				fmt.Fprintf(out, "Stems: %s\n", strings.Join(loaded.Stems, ", "))
			}
			fmt.Fprintln(out)
			tf := cli.NewTableFormatter(out)
			for _, row := range gridText(v, width) {
				tf.Row(row...)
			}
			tf.Flush()
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 24, "Maximum width of a cell")
	return cmd
}

// gridText lays a table out as text, one string per grid slot. A cell's
// text sits in its top-left slot; the slots it spans into are marked.
func gridText(v table.Value[inflection.CellData], width int) [][]string {
	l := v.Layout()
	out := make([][]string, l.RowCount())
	for r := range out {
		out[r] = make([]string, l.ColCount())
		for c := range out[r] {
			desc := l.CellFromPosition(r, c)
			switch {
			case desc.Row != r:
				out[r][c] = "^"
			case desc.Col != c:
				out[r][c] = "<"
			default:
				cell, _ := v.Cell(desc.Key)
				text := cell.Data.Text
				if cell.Header {
					text = "[" + text + "]"
				} else if !cell.Data.DeriveLemma {
					text += " (not derived)"
				}
				out[r][c] = cli.TruncateString(text, width)
			}
		}
	}
	return out
}
