package commands

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/japaniel/paradigm/internal/cli"
	"github.com/japaniel/paradigm/pkg/config"
)

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and a settings file",
		Long: `Creates the SQLite database and, unless it already exists, writes the
settings file with the current settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			cli.PrintSuccess("Database initialized at %s", a.settings.Database)

			if _, err := os.Stat(a.configPath); !errors.Is(err, fs.ErrNotExist) {
				cli.PrintInfo("Keeping existing settings in %s", a.configPath)
				return nil
			}
			if err := config.Save(a.configPath, a.settings); err != nil {
				return err
			}
			cli.PrintSuccess("Wrote settings to %s", a.configPath)
			return nil
		},
	}
}
