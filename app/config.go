package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gophilo/gophilo/internal/config"
)

func newConfigCmd(st *state) *cobra.Command {
	var asJSON bool

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dump := config.DumpConfig
			if asJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(&st.cfg)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)

			return nil
		},
	}

	dumpCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of TOML (passwords are omitted)")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	cmd.AddCommand(dumpCmd)

	return cmd
}
