package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/internal/config"
	"github.com/kubev2v/loopbridge/internal/logger"
)

var (
	cfg         *config.Configuration
	flushLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "loopbridge",
	Short: "Bridge blocking workers and a cooperative single-threaded loop",
	Long: `loopbridge runs small programs showing how a cooperative loop talks to
worker goroutines: results polled from a queue, work handed to a long-lived
consumer, and liveness checks, all without ever blocking the loop.`,
	SilenceUsage: true,
	PersistentPreRunE: cobrautil.CommandStack(
		cobrautil.SyncViperPreRunE("loopbridge"),
		loadConfiguration,
	),
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushLogger()
	},
}

func loadConfiguration(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	c, err := config.Load(v)
	if err != nil {
		return err
	}

	flush, err := logger.Setup(c.LogFormat, c.LogLevel)
	if err != nil {
		return err
	}
	flushLogger = flush
	cfg = c

	zap.S().Debugw("configuration loaded", "config", cfg.DebugMap())
	return nil
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(threadToLoopCmd)
	rootCmd.AddCommand(loopToThreadCmd)
	rootCmd.AddCommand(isAliveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
