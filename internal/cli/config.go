package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"cheesefinder/internal/config"
)

func newConfigCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs := flags.service()
			if _, err := os.Stat(cs.Path()); err == nil && !force {
				return errors.Newf("%s already exists, use --force to overwrite", cs.Path())
			}
			if err := cs.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cs.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
