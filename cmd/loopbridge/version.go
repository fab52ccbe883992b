package main

import (
	"fmt"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		goVersion := "unknown"
		if info, ok := debug.ReadBuildInfo(); ok {
			goVersion = info.GoVersion
		}
		bold := color.New(color.Bold).SprintFunc()
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", bold("loopbridge"), version, goVersion)
		return err
	},
}
