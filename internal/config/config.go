package config

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/kubev2v/loopbridge/pkg/bridge"
	"github.com/kubev2v/loopbridge/pkg/queue"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Loop Queue Demo Server

type Configuration struct {
	Loop      Loop   `debugmap:"visible"`
	Queue     Queue  `debugmap:"visible"`
	Demo      Demo   `debugmap:"visible"`
	Server    Server `debugmap:"visible"`
	LogFormat string `debugmap:"visible" default:"console"`
	LogLevel  string `debugmap:"visible" default:"info"`
}

type Loop struct {
	PollInterval time.Duration `debugmap:"visible" default:"100ms"`
	// MaxPollInterval > PollInterval switches pollers to exponential backoff
	MaxPollInterval time.Duration `debugmap:"visible" default:"0s"`
	WatchInterval   time.Duration `debugmap:"visible" default:"200ms"`
	ShutdownTimeout time.Duration `debugmap:"visible" default:"5s"`
}

type Queue struct {
	Capacity   int    `debugmap:"visible" default:"0"`
	FullPolicy string `debugmap:"visible" default:"block"`
}

type Demo struct {
	Messages        int           `debugmap:"visible" default:"10"`
	MessageInterval time.Duration `debugmap:"visible" default:"1s"`
	Clicks          int           `debugmap:"visible" default:"3"`
	ClickInterval   time.Duration `debugmap:"visible" default:"500ms"`
	WorkDuration    time.Duration `debugmap:"visible" default:"1s"`
	SlowSteps       int           `debugmap:"visible" default:"4"`
	ClockInterval   time.Duration `debugmap:"visible" default:"1s"`
	RunFor          time.Duration `debugmap:"visible" default:"5s"`
}

type Server struct {
	ServerMode string `debugmap:"visible" default:"dev"`
	HTTPPort   int    `debugmap:"visible" default:"8000"`
}

func (c *Configuration) Validate() error {
	if c.Loop.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Loop.PollInterval)
	}
	if c.Loop.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", c.Loop.WatchInterval)
	}
	if c.Loop.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.Loop.ShutdownTimeout)
	}
	if c.Queue.Capacity < 0 {
		return fmt.Errorf("queue capacity must not be negative, got %d", c.Queue.Capacity)
	}
	if _, err := ParseFullPolicy(c.Queue.FullPolicy); err != nil {
		return err
	}
	if c.Demo.Messages < 0 || c.Demo.Clicks < 0 || c.Demo.SlowSteps < 0 {
		return fmt.Errorf("demo counts must not be negative")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'console' or 'json'", c.LogFormat)
	}
	switch c.Server.ServerMode {
	case "dev", "prod":
	default:
		return fmt.Errorf("invalid server mode %q: must be 'dev' or 'prod'", c.Server.ServerMode)
	}
	return nil
}

func ParseFullPolicy(s string) (queue.FullPolicy, error) {
	switch s {
	case "block", "":
		return queue.Block, nil
	case "fail":
		return queue.Fail, nil
	default:
		return queue.Block, fmt.Errorf("invalid queue full policy %q: must be 'block' or 'fail'", s)
	}
}

// QueueOptions translates the Queue section. It assumes Validate passed.
func (c *Configuration) QueueOptions() []queue.Option {
	policy, _ := ParseFullPolicy(c.Queue.FullPolicy)
	return []queue.Option{
		queue.WithCapacity(c.Queue.Capacity),
		queue.WithFullPolicy(policy),
	}
}

// BridgeOptions translates the Loop and Queue sections.
func (c *Configuration) BridgeOptions() []bridge.Option {
	opts := []bridge.Option{
		bridge.WithPollInterval(c.Loop.PollInterval),
		bridge.WithWatchInterval(c.Loop.WatchInterval),
		bridge.WithShutdownTimeout(c.Loop.ShutdownTimeout),
		bridge.WithQueueOptions(c.QueueOptions()...),
	}

	if c.Loop.MaxPollInterval > c.Loop.PollInterval {
		initial, limit := c.Loop.PollInterval, c.Loop.MaxPollInterval
		opts = append(opts, bridge.WithPollBackOff(func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = limit
			b.Reset()
			return b
		}))
	}
	return opts
}
