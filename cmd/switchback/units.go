package main

import (
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/injector/lua"
	"github.com/xy-planning-network/switchback/injector/manifest"
	"github.com/xy-planning-network/switchback/logger"
)

// errUnitsFailed is returned by units --check when any unit fails to load.
var errUnitsFailed = fmt.Errorf("%w: units failed to load", switchback.ErrBadConfig)

// newInjector constructs an *injector.Injector loading Lua scripts and HCL manifests,
// logging warnings and worse to w.
func newInjector(w io.Writer) *injector.Injector {
	l := logger.NewLogger(logger.WithLogger(log.New(w, "", 0)), logger.WithLevel(logger.LogLevelWarn))
	return injector.New(
		map[string]injector.Loader{
			lua.Ext:      lua.NewLoader(lua.WithLogger(l)),
			manifest.Ext: manifest.NewLoader(manifest.WithLogger(l)),
		},
		injector.WithLogger(l),
	)
}

func unitsCmd() *cobra.Command {
	var (
		roots []string
		check bool
	)

	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the units found under the unit roots",
		Long: `List the units found under the unit roots by name and path.

A unit's name is its file's base name; where two roots hold the same name,
the root listed last wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inj := newInjector(cmd.ErrOrStderr())
			inj.Configure(roots...)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := "NAME\tPATH"
			if check {
				header += "\tSTATUS"
			}
			fmt.Fprintln(tw, header)

			var failed int
			for _, e := range inj.Entries() {
				if !check {
					fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Path)
					continue
				}

				status := color.GreenString("ok")
				if _, err := inj.ResolveUnit(cmd.Context(), e.Name); err != nil {
					failed++
					status = color.RedString(err.Error())
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Path, status)
			}

			if err := tw.Flush(); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errUnitsFailed, failed, len(inj.Entries()))
			}

			return nil
		},
	}

	rootsFlag(cmd, &roots)
	cmd.Flags().BoolVar(&check, "check", false, "load every unit and report failures")

	return cmd
}
