package main

import (
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/switchback/ranger"
)

func serveCmd() *cobra.Command {
	var (
		roots   []string
		routes  string
		preload []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Run the web server until interrupted.

Configuration is read from the environment and a .env file;
flags override the matching environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []ranger.RangerOption
			if cmd.Flags().Changed("root") {
				opts = append(opts, ranger.WithRoots(roots...))
			}

			if cmd.Flags().Changed("routes") {
				opts = append(opts, ranger.WithRoutesFile(routes))
			}

			if cmd.Flags().Changed("preload") {
				opts = append(opts, ranger.WithPreload(preload...))
			}

			rng, err := ranger.New(opts...)
			if err != nil {
				return err
			}

			return rng.Guide()
		},
	}

	rootsFlag(cmd, &roots)
	routesFileFlag(cmd, &routes)
	cmd.Flags().StringSliceVar(&preload, "preload", nil, "unit or category to load at start; repeatable")

	return cmd
}
