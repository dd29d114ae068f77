package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gophilo/gophilo/internal/daemon"
)

const flagDev = "dev"

func newStartCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the GoPhilo web service",
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := daemon.New(&st.cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}

	cmd.Flags().Bool(flagDev, false, "Enable dev mode (no template cache, admin views from disk)")

	return cmd
}

func newMigrateCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&st.cfg)
			if err != nil {
				return err
			}

			if err = daemon.Migrate(db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "database migrated")

			return nil
		},
	}
}
