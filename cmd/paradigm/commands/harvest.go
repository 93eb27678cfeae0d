package commands

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/paradigm/internal/cli"
	"github.com/japaniel/paradigm/pkg/db"
	"github.com/japaniel/paradigm/pkg/harvest"
)

type harvestResult struct {
	Source    string         `json:"source" yaml:"source"`
	Title     string         `json:"title,omitempty" yaml:"title,omitempty"`
	Sentences int            `json:"sentences" yaml:"sentences"`
	Lemmas    []harvestLemma `json:"lemmas" yaml:"lemmas"`
	Derived   int            `json:"derivedLemmas" yaml:"derivedLemmas"`
}

type harvestLemma struct {
	Term         string `json:"term" yaml:"term"`
	Reading      string `json:"reading,omitempty" yaml:"reading,omitempty"`
	PartOfSpeech string `json:"pos" yaml:"pos"`
	Count        int    `json:"count" yaml:"count"`
}

func newHarvestCommand(a *app) *cobra.Command {
	var (
		tableName string
		pos       []string
	)
	cmd := &cobra.Command{
		Use:   "harvest <url|file>",
		Short: "Store the lemmas found in Japanese text",
		Long: `Analyzes Japanese text and stores the dictionary form of every word whose
part of speech is selected. The source may be a URL, an HTML file or a plain
text file. With --table the lemmas are attached to that table and their forms
are derived.

Examples:
  paradigm harvest https://example.com/article.html --table godan
  paradigm harvest story.txt --pos 動詞 --pos 形容詞`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			if !cmd.Flags().Changed("pos") {
				pos = a.settings.Harvest.POS
			}

			var (
				body   []byte
				isHTML bool
				page   *url.URL
				err    error
			)
			if u, perr := url.Parse(source); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
				cli.PrintInfo("Fetching %s...", source)
				body, err = harvest.Fetch(cmd.Context(), nil, source)
				isHTML, page = true, u
			} else {
				body, err = os.ReadFile(source)
				ext := strings.ToLower(filepath.Ext(source))
				isHTML = ext == ".html" || ext == ".htm"
			}
			if err != nil {
				return err
			}

			res := harvestResult{Source: source, Lemmas: []harvestLemma{}}
			text := string(body)
			if isHTML {
				article, err := harvest.ExtractArticle(body, page)
				if err != nil {
					return err
				}
				res.Title = article.Title
				text = article.Text
			}

			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			var tableID int64
			if tableName != "" {
				t, err := db.GetTable(conn, tableName)
				if err != nil {
					return err
				}
				tableID = t.ID
			}

			analyzer, err := harvest.NewAnalyzer()
			if err != nil {
				return fmt.Errorf("create analyzer: %w", err)
			}
			h := &harvest.Harvester{
				DB:       conn,
				Analyzer: analyzer,
				Language: a.settings.Language,
				POS:      pos,
				TableID:  tableID,
				Logger:   a.logger,
			}
			hr, err := h.Harvest(cmd.Context(), text)
			if err != nil {
				return err
			}
			res.Sentences = hr.Sentences
			for _, c := range hr.Candidates {
				res.Lemmas = append(res.Lemmas, harvestLemma{
					Term:         c.Term,
					Reading:      c.Reading,
					PartOfSpeech: c.PartOfSpeech,
					Count:        c.Count,
				})
			}
			if tableID > 0 {
				res.Derived, err = a.deriver(conn).Regenerate(cmd.Context(), tableID)
				if err != nil {
					return fmt.Errorf("derive forms: %w", err)
				}
			}

			if a.structured() {
				return a.output(cmd.OutOrStdout(), res)
			}
			if res.Title != "" {
				cli.PrintInfo("Title: %s", res.Title)
			}
			cli.PrintSuccess("Harvested %d lemmas from %d sentences", len(res.Lemmas), res.Sentences)
			if tableID > 0 {
				cli.PrintInfo("Derived forms for %d lemmas", res.Derived)
			}
			tf := cli.NewTableFormatter(cmd.OutOrStdout())
			tf.Header("LEMMA", "READING", "POS", "COUNT")
			for _, l := range res.Lemmas {
				tf.Row(l.Term, l.Reading, l.PartOfSpeech, fmt.Sprint(l.Count))
			}
			tf.Flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&tableName, "table", "", "Attach harvested lemmas to this inflection table")
	cmd.Flags().StringArrayVar(&pos, "pos", nil, "Primary part of speech to keep; repeat for several (default from settings)")
	return cmd
}
