package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"yatube/backend/pkg/db/sqlite"
)

// NewMigrateCommand creates the migrate command and its up/down/version
// subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := open(rootOpts, true)
			if err != nil {
				return err
			}
			defer conn.Close()
			return printVersion(cmd, conn.DB)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := open(rootOpts, false)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := sqlite.RollbackLastMigration(conn.DB); err != nil {
				return err
			}
			return printVersion(cmd, conn.DB)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := open(rootOpts, false)
			if err != nil {
				return err
			}
			defer conn.Close()
			return printVersion(cmd, conn.DB)
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, conn *sql.DB) error {
	v, dirty, err := sqlite.Version(conn)
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty)\n", v)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
	return nil
}
