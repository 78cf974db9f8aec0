// Package cli wires configuration, storage and the HTTP server into the
// yatube command.
package cli

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"yatube/backend/config"
	"yatube/backend/db"
	"yatube/backend/pkg/db/sqlite"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for the yatube CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "yatube",
		Short:         "Yatube - a small social blogging site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewGroupCommand(opts))

	return cmd
}

// open loads the configuration and connects to the database, migrating it to
// the latest schema when migrateUp is set.
func open(opts *RootOptions, migrateUp bool) (config.Config, *sqlx.DB, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, nil, err
	}

	conn, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		return cfg, nil, err
	}

	if migrateUp {
		if err := sqlite.ApplyMigrations(conn.DB); err != nil {
			conn.Close()
			return cfg, nil, errors.Wrap(err, "migrating database")
		}
	}
	return cfg, conn, nil
}
