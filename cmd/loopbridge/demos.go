package main

import (
	"github.com/spf13/cobra"

	"github.com/kubev2v/loopbridge/internal/demo"
)

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Refresh a label with the time from a self-rescheduling callback",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newRuntime(cfg)
		label := demo.NewLabel(r.console)
		demo.StartClock(r.loop, label, cfg.Demo.ClockInterval)
		if cfg.Demo.RunFor > 0 {
			r.loop.Schedule(cfg.Demo.RunFor, r.loop.Stop)
		}
		return r.run(cmd.Context())
	},
}

var threadToLoopCmd = &cobra.Command{
	Use:   "thread2loop",
	Short: "Relay messages from a worker to the loop through a polled queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newRuntime(cfg)
		label := demo.NewLabel(r.console)
		demo.ThreadToLoop(r.bridge, r.console, label, cfg.Demo.Messages, cfg.Demo.MessageInterval, func(error) {
			r.loop.Stop()
		})
		return r.run(cmd.Context())
	},
}

var loopToThreadCmd = &cobra.Command{
	Use:   "loop2thread",
	Short: "Hand clicks from the loop to a long-lived consumer worker",
	Long: `Simulates clicks from loop callbacks. Each click enqueues "hello" for a
consumer worker. When the clicks are done the loop stops, and the consumer
is sent its sentinel after the queued work, so nothing is lost and no
worker is left behind.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newRuntime(cfg)
		clicker := demo.LoopToThread(r.bridge, r.console, cfg.Demo.WorkDuration)
		demo.SimulateClicks(r.loop, clicker, cfg.Demo.Clicks, cfg.Demo.ClickInterval, func() {
			r.console.Loop("%d clicks done, closing", clicker.Clicks())
			r.loop.Stop()
		})
		return r.run(cmd.Context())
	},
}

var isAliveCmd = &cobra.Command{
	Use:   "isalive",
	Short: "Watch a slow worker from the loop until it is done",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newRuntime(cfg)
		demo.IsAlive(r.bridge, r.console, cfg.Demo.SlowSteps, cfg.Demo.WorkDuration, func(error) {
			r.loop.Stop()
		})
		if fireAndForget {
			demo.StartBlocking(r.bridge, r.console, cfg.Demo.WorkDuration)
		}
		return r.run(cmd.Context())
	},
}

var fireAndForget bool

func init() {
	isAliveCmd.Flags().BoolVar(&fireAndForget, "fire-and-forget", false, "also start an unwatched blocking call")
}
