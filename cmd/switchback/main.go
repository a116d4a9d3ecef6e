// Command switchback serves a switchback app and inspects its routes and units.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/switchback"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "switchback",
		Short: "Route URL patterns to units of Lua scripts and HCL manifests",
		Long: `switchback matches each request against URL patterns, in the order they are declared,
and hands it to the unit the matching route names.

Units are files found under the unit roots, named by their base name,
and loaded the first time a request needs them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		unitsCmd(),
		matchCmd(),
		versionCmd(),
	)

	return rootCmd
}

// routesFileFlag binds the --routes flag, defaulting to ROUTES_FILE.
func routesFileFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().StringVarP(p, "routes", "r", switchback.EnvVarOrString("ROUTES_FILE", "routes.hcl"), "path of the routes file")
}

// rootsFlag binds the --root flag, defaulting to UNIT_ROOTS.
func rootsFlag(cmd *cobra.Command, p *[]string) {
	cmd.Flags().StringSliceVar(p, "root", switchback.EnvVarOrList("UNIT_ROOTS", []string{"app"}), "directory units are found under; repeatable")
}
