package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/paradigm/internal/cli"
	"github.com/japaniel/paradigm/pkg/pattern"
)

type compileResult struct {
	Pattern string   `json:"pattern" yaml:"pattern"`
	Stems   []string `json:"stems" yaml:"stems"`
	Text    string   `json:"text" yaml:"text"`
}

func newCompileCommand(a *app) *cobra.Command {
	var (
		term      string
		stemPairs []string
	)
	cmd := &cobra.Command{
		Use:   "compile <pattern>",
		Short: "Expand an inflection pattern",
		Long: `Expands an inflection pattern without touching the database. "{~}" is the
term, "{name}" is the stem called name and "{{" and "}}" are literal braces.
Stems that are not given fall back to the term.

Examples:
  paradigm compile "{~}s" --term cat
  paradigm compile "{past stem}ed" --term walk --stem "past stem=walk"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stems, err := cli.ParseStems(stemPairs)
			if err != nil {
				return err
			}
			res := compileResult{
				Pattern: pattern.NormalizePattern(args[0]),
				Stems:   pattern.StemNames(args[0]),
				Text:    pattern.Compile(args[0], pattern.StemMap(stems), term),
			}
			if a.structured() {
				return a.output(cmd.OutOrStdout(), res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&term, "term", "", "Term substituted for {~} and missing stems")
	cmd.Flags().StringArrayVar(&stemPairs, "stem", nil, "Stem as name=value; repeat for several")
	return cmd
}
