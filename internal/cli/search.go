package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cheesefinder/internal/engine"
	"cheesefinder/internal/logging"
)

func newSearchCommand(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one search and print the matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			logger, cleanup, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := engine.LoadCatalog(cfg.Catalog.Path)
			if err != nil {
				return err
			}
			// one query, so the cache would never be hit
			opts := engineOptions(cfg)
			opts.CacheSize = 0
			e, err := engine.Build(cat, opts, logger)
			if err != nil {
				return err
			}

			result := e.Search(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			for i, item := range result.Items {
				if limit > 0 && i >= limit {
					fmt.Fprintf(out, "... %d more\n", result.Len()-limit)
					break
				}
				fmt.Fprintln(out, item)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d matches for %q in %s\n", result.Len(), result.Query, result.Took)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n matches (0 for all)")
	return cmd
}
