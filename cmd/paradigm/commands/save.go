package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/paradigm/internal/cli"
	"github.com/japaniel/paradigm/pkg/inflection"
	"github.com/japaniel/paradigm/pkg/store"
)

type saveResult struct {
	Table   string   `json:"table" yaml:"table"`
	ID      int64    `json:"id" yaml:"id"`
	Stems   []string `json:"stems" yaml:"stems"`
	Removed int64    `json:"removedForms" yaml:"removedForms"`
	Lemmas  int      `json:"derivedLemmas" yaml:"derivedLemmas"`
}

func newSaveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Validate and store an inflection table",
		Long: `Reads a table definition (YAML or JSON, "-" for stdin), validates its
layout and stores it under name. Forms the new layout no longer uses are
removed, and the forms of every lemma attached to the table are derived again.

Examples:
  # Save a table
  paradigm save nouns nouns.yaml

  # Save from stdin and print the result as JSON
  cat nouns.json | paradigm save nouns - -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := readDefinition(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			saved, err := store.SaveTable(cmd.Context(), conn, args[0], def.Rows)
			if err != nil {
				return err
			}
			n, err := a.deriver(conn).Regenerate(cmd.Context(), saved.TableID)
			if err != nil {
				return fmt.Errorf("derive forms: %w", err)
			}

			res := saveResult{
				Table:   args[0],
				ID:      saved.TableID,
				Stems:   saved.Stems,
				Removed: saved.Removed,
				Lemmas:  n,
			}
			if a.structured() {
				return a.output(cmd.OutOrStdout(), res)
			}
			cli.PrintSuccess("Saved table %q (id %d)", res.Table, res.ID)
			if len(res.Stems) > 0 {
				cli.PrintInfo("Stems: %s", strings.Join(res.Stems, ", "))
			}
			if res.Removed > 0 {
				cli.PrintInfo("Removed %d unused forms", res.Removed)
			}
			cli.PrintInfo("Derived forms for %d lemmas", res.Lemmas)
			return nil
		},
	}
}

func readDefinition(stdin io.Reader, path string) (*inflection.Definition, error) {
	if path == "-" {
		return inflection.ReadDefinition(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()
	return inflection.ReadDefinition(f)
}
