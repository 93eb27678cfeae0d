package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/paradigm/internal/cli"
	"github.com/japaniel/paradigm/pkg/db"
	"github.com/japaniel/paradigm/pkg/derive"
)

type formsResult struct {
	Term  string         `json:"term" yaml:"term"`
	Table string         `json:"table,omitempty" yaml:"table,omitempty"`
	Forms []derivedEntry `json:"forms" yaml:"forms"`
}

type derivedEntry struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

func newLemmaCommand(a *app) *cobra.Command {
	var (
		tableName string
		detach    bool
		stemPairs []string
		reading   string
		pos       string
	)
	cmd := &cobra.Command{
		Use:   "lemma <term>",
		Short: "Add or update a lemma and derive its forms",
		Long: `Adds a lemma, or updates an existing one, and derives its forms from the
table it is attached to.

Examples:
  # Attach a lemma to a table
  paradigm lemma ox --language en --table nouns --stem "plural root=oxen"

  # Detach it again
  paradigm lemma ox --language en --detach`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stems, err := cli.ParseStems(stemPairs)
			if err != nil {
				return err
			}
			if detach && tableName != "" {
				return fmt.Errorf("--table and --detach cannot be combined")
			}

			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			tx, err := conn.BeginTx(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer func() {
				_ = tx.Rollback() // ignored if committed
			}()

			id, err := db.CreateOrGetLemma(tx, args[0], a.settings.Language, reading, pos)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("stem") {
				if err := db.SetLemmaStems(tx, id, stems); err != nil {
					return err
				}
			}
			switch {
			case tableName != "":
				t, err := db.GetTable(tx, tableName)
				if err != nil {
					return err
				}
				if err := db.AssignLemmaTable(tx, id, t.ID); err != nil {
					return err
				}
			case detach:
				if err := db.AssignLemmaTable(tx, id, 0); err != nil {
					return err
				}
			}

			lemma, err := db.GetLemma(tx, args[0], a.settings.Language)
			if err != nil {
				return err
			}
			derived, err := derive.RegenerateLemma(tx, lemma)
			if err != nil {
				return err
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("commit lemma: %w", err)
			}

			res := formsResult{Term: lemma.Term, Table: tableName}
			for _, f := range derived {
				res.Forms = append(res.Forms, derivedEntry{Name: f.DisplayName, Text: f.Text})
			}
			if a.structured() {
				return a.output(cmd.OutOrStdout(), res)
			}
			cli.PrintSuccess("Saved lemma %q (id %d)", lemma.Term, lemma.ID)
			printForms(cmd, res.Forms)
			return nil
		},
	}
	cmd.Flags().StringVar(&tableName, "table", "", "Attach the lemma to this inflection table")
	cmd.Flags().BoolVar(&detach, "detach", false, "Detach the lemma from its table")
	cmd.Flags().StringArrayVar(&stemPairs, "stem", nil, "Stem as name=value; repeat for several (replaces all stems)")
	cmd.Flags().StringVar(&reading, "reading", "", "Reading of the lemma")
	cmd.Flags().StringVar(&pos, "pos", "", "Part of speech of the lemma")
	return cmd
}

func newFormsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forms <term>",
		Short: "List the derived forms of a lemma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			lemma, err := db.GetLemma(conn, args[0], a.settings.Language)
			if err != nil {
				return err
			}
			derived, err := db.GetDerivedForms(conn, lemma.ID)
			if err != nil {
				return err
			}
			res := formsResult{Term: lemma.Term, Forms: []derivedEntry{}}
			for _, f := range derived {
				res.Forms = append(res.Forms, derivedEntry{Name: f.DisplayName, Text: f.Text})
			}
			if a.structured() {
				return a.output(cmd.OutOrStdout(), res)
			}
			printForms(cmd, res.Forms)
			return nil
		},
	}
}

func printForms(cmd *cobra.Command, forms []derivedEntry) {
	if len(forms) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No derived forms.")
		return
	}
	tf := cli.NewTableFormatter(cmd.OutOrStdout())
	tf.Header("FORM", "TEXT")
	for _, f := range forms {
		tf.Row(f.Name, f.Text)
	}
	tf.Flush()
}
