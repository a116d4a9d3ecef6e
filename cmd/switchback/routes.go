package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/switchback/ranger"
)

func routesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List routes in the order requests are matched against them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rtr, err := ranger.LoadRoutes(path)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tPATTERN\tHANDLER")
			for _, rule := range rtr.Rules() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", rule.Method, rule.Pattern, rule.Handler)
			}

			return tw.Flush()
		},
	}

	routesFileFlag(cmd, &path)

	return cmd
}
