package commands

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/japaniel/paradigm/internal/cli"
	"github.com/japaniel/paradigm/pkg/db"
	"github.com/japaniel/paradigm/pkg/editor"
	"github.com/japaniel/paradigm/pkg/inflection"
	"github.com/japaniel/paradigm/pkg/store"
	"github.com/japaniel/paradigm/pkg/table"
)

func newEditCommand(a *app) *cobra.Command {
	var rows, cols int
	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Edit an inflection table in the terminal",
		Long: `Opens a table in the grid editor. A table that does not exist yet starts
as an empty grid of --rows by --cols cells. ctrl+s saves the table and
derives the forms of its lemmas again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			keys := table.NewKeyGen()
			var v editor.Table
			loaded, err := store.LoadTable(conn, name)
			switch {
			case errors.Is(err, db.ErrNotFound):
				v, err = table.New[inflection.CellData](rows, cols, keys)
			case err == nil:
				v, err = inflection.NewTableValue(loaded.Rows, keys)
			}
			if err != nil {
				return err
			}

			save := func(v editor.Table) (editor.Table, error) {
				saved, err := store.SaveTable(cmd.Context(), conn, name, inflection.ToInput(v))
				if err != nil {
					return v, err
				}
				if _, err := a.deriver(conn).Regenerate(cmd.Context(), saved.TableID); err != nil {
					return v, fmt.Errorf("derive forms: %w", err)
				}
				return inflection.WithFormIDs(v, saved.Rows)
			}

			// The editor owns the terminal; log lines would corrupt it.
			logger := a.logger
			a.logger = nil
			defer func() { a.logger = logger }()

			m := editor.New(name, v, save, editor.WithCellWidth(a.settings.Editor.CellWidth))
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run editor: %w", err)
			}
			if m.Dirty() {
				cli.PrintWarning("Quit with unsaved changes to %s", name)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 2, "Rows of a new table")
	cmd.Flags().IntVar(&cols, "cols", 2, "Columns of a new table")
	return cmd
}
