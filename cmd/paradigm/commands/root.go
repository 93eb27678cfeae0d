// Package commands implements the paradigm command line.
package commands

import (
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/japaniel/paradigm/internal/cli"
	"github.com/japaniel/paradigm/pkg/config"
	"github.com/japaniel/paradigm/pkg/db"
	"github.com/japaniel/paradigm/pkg/derive"
)

// Version is set during build with -ldflags
var Version = "dev"

// app carries the global flags and the settings they resolve to.
type app struct {
	configPath string
	dbPath     string
	language   string
	format     string
	quiet      bool
	noColor    bool

	settings *config.Settings
	logger   *log.Logger
}

// NewRootCommand creates the paradigm command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "paradigm",
		Short: "Build inflection tables and derive word forms from them",
		Long: `Paradigm keeps inflection tables (grids of header cells and inflection
patterns such as "{~}s" or "{past stem}ed") in a SQLite database, attaches
them to lemmas and derives every inflected form of those lemmas.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath, "Path to the settings file")
	pf.StringVar(&a.dbPath, "db", "", "Path to SQLite database (overrides settings)")
	pf.StringVar(&a.language, "language", "", "Language of lemmas (overrides settings)")
	pf.StringVarP(&a.format, "format", "o", "", "Output format: text, json, or yaml (overrides settings)")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Only print results")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable symbols in messages")

	root.AddCommand(
		newInitCommand(a),
		newSaveCommand(a),
		newShowCommand(a),
		newLemmaCommand(a),
		newFormsCommand(a),
		newCompileCommand(a),
		newHarvestCommand(a),
		newEditCommand(a),
		newVersionCommand(),
	)
	return root
}

// load reads the settings file and applies flag overrides.
func (a *app) load(cmd *cobra.Command, args []string) error {
	s, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		s.Database = a.dbPath
	}
	if flags.Changed("language") {
		s.Language = a.language
	}
	if flags.Changed("format") {
		if err := cli.ValidateFormat(a.format); err != nil {
			return err
		}
		s.Output.Format = a.format
	}
	a.settings = s

	cli.SetGlobalFlags(a.quiet, a.noColor)
	cli.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if !a.quiet {
		a.logger = log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	}
	return nil
}

// openDB opens and migrates the configured database.
func (a *app) openDB() (*sql.DB, error) {
	conn, err := db.Open(a.settings.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.InitDB(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return conn, nil
}

func (a *app) deriver(conn *sql.DB) *derive.Deriver {
	d := derive.NewDeriver(conn)
	d.Workers = a.settings.Derive.Workers
	d.BatchSize = a.settings.Derive.BatchSize
	d.Logger = a.logger
	return d
}

// structured reports whether results should be encoded instead of printed
// as text.
func (a *app) structured() bool {
	return a.settings.Output.Format != string(cli.FormatText)
}

func (a *app) output(w io.Writer, data interface{}) error {
	return cli.OutputResults(w, a.settings.Output.Format, data)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of paradigm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "paradigm version %s\n", Version)
			return nil
		},
	}
}
