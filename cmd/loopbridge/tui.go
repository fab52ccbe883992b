package main

import (
	"github.com/spf13/cobra"

	"github.com/kubev2v/loopbridge/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive demo where a terminal UI program is the loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), cfg)
	},
}
