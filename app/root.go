// Package app implements the gophilo commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/gophilo/gophilo/internal/config"
	"github.com/gophilo/gophilo/internal/logger"
)

// state is shared by the commands of one root command.
type state struct {
	configPath string
	cfg        config.Config
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	st := &state{}

	rootCmd := &cobra.Command{
		Use:   "gophilo",
		Short: "GoPhilo is a small content management system",
		Long: `GoPhilo serves pages stored as a tree, rendered through stored Go
templates whose containers are filled with page contentlets.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&st.configPath, "config", "c", "./etc/",
		"Directory holding main.toml (with trailing slash)")

	rootCmd.AddCommand(
		newStartCmd(st),
		newMigrateCmd(st),
		newLoadCmd(st),
		newResolveCmd(st),
		newContainersCmd(st),
		newConfigCmd(st),
	)

	return rootCmd
}

// load reads the configuration and initializes logging.
func (st *state) load(cmd *cobra.Command) error {
	var err error

	if st.cfg, err = config.ReadConfig(st.configPath); err != nil {
		return err
	}

	if dev, _ := cmd.Flags().GetBool(flagDev); dev {
		st.cfg.DevMode = true
	}

	return logger.Init(st.cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
