package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag and viper keys. Environment variables use the LOOPBRIDGE_ prefix with
// dashes turned into underscores, e.g. LOOPBRIDGE_POLL_INTERVAL.
const (
	KeyConfigFile      = "config"
	KeyLogFormat       = "log-format"
	KeyLogLevel        = "log-level"
	KeyPollInterval    = "poll-interval"
	KeyMaxPollInterval = "max-poll-interval"
	KeyWatchInterval   = "watch-interval"
	KeyShutdownTimeout = "shutdown-timeout"
	KeyQueueCapacity   = "queue-capacity"
	KeyQueueFullPolicy = "queue-full-policy"
	KeyMessages        = "messages"
	KeyMessageInterval = "message-interval"
	KeyClicks          = "clicks"
	KeyClickInterval   = "click-interval"
	KeyWorkDuration    = "work-duration"
	KeySlowSteps       = "slow-steps"
	KeyClockInterval   = "clock-interval"
	KeyRunFor          = "run-for"
	KeyServerMode      = "server-mode"
	KeyHTTPPort        = "http-port"
)

const EnvPrefix = "LOOPBRIDGE"

// RegisterFlags adds one flag per configuration field, defaulting to the
// struct defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := NewConfigurationWithOptionsAndDefaults()

	fs.String(KeyConfigFile, "", "path to a configuration file (yaml, json or toml)")
	fs.String(KeyLogFormat, d.LogFormat, "log format: console or json")
	fs.String(KeyLogLevel, d.LogLevel, "log level: debug, info, warn, error")

	fs.Duration(KeyPollInterval, d.Loop.PollInterval, "delay between two polls of a result queue")
	fs.Duration(KeyMaxPollInterval, d.Loop.MaxPollInterval, "when above poll-interval, back off exponentially on empty polls up to this delay")
	fs.Duration(KeyWatchInterval, d.Loop.WatchInterval, "delay between two liveness checks")
	fs.Duration(KeyShutdownTimeout, d.Loop.ShutdownTimeout, "how long shutdown waits for workers")

	fs.Int(KeyQueueCapacity, d.Queue.Capacity, "queue capacity, 0 for unbounded")
	fs.String(KeyQueueFullPolicy, d.Queue.FullPolicy, "what a put on a full queue does: block or fail")

	fs.Int(KeyMessages, d.Demo.Messages, "messages sent by the thread2loop producer")
	fs.Duration(KeyMessageInterval, d.Demo.MessageInterval, "pause between two producer messages")
	fs.Int(KeyClicks, d.Demo.Clicks, "simulated clicks in loop2thread")
	fs.Duration(KeyClickInterval, d.Demo.ClickInterval, "pause between two simulated clicks")
	fs.Duration(KeyWorkDuration, d.Demo.WorkDuration, "duration of one unit of consumer work")
	fs.Int(KeySlowSteps, d.Demo.SlowSteps, "steps of the isalive slow worker")
	fs.Duration(KeyClockInterval, d.Demo.ClockInterval, "clock refresh interval")
	fs.Duration(KeyRunFor, d.Demo.RunFor, "how long the clock demo runs, 0 to run until interrupted")

	fs.String(KeyServerMode, d.Server.ServerMode, "server mode: dev or prod")
	fs.Int(KeyHTTPPort, d.Server.HTTPPort, "status server port")
}

func setDefaults(v *viper.Viper) {
	d := NewConfigurationWithOptionsAndDefaults()

	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyPollInterval, d.Loop.PollInterval)
	v.SetDefault(KeyMaxPollInterval, d.Loop.MaxPollInterval)
	v.SetDefault(KeyWatchInterval, d.Loop.WatchInterval)
	v.SetDefault(KeyShutdownTimeout, d.Loop.ShutdownTimeout)
	v.SetDefault(KeyQueueCapacity, d.Queue.Capacity)
	v.SetDefault(KeyQueueFullPolicy, d.Queue.FullPolicy)
	v.SetDefault(KeyMessages, d.Demo.Messages)
	v.SetDefault(KeyMessageInterval, d.Demo.MessageInterval)
	v.SetDefault(KeyClicks, d.Demo.Clicks)
	v.SetDefault(KeyClickInterval, d.Demo.ClickInterval)
	v.SetDefault(KeyWorkDuration, d.Demo.WorkDuration)
	v.SetDefault(KeySlowSteps, d.Demo.SlowSteps)
	v.SetDefault(KeyClockInterval, d.Demo.ClockInterval)
	v.SetDefault(KeyRunFor, d.Demo.RunFor)
	v.SetDefault(KeyServerMode, d.Server.ServerMode)
	v.SetDefault(KeyHTTPPort, d.Server.HTTPPort)
}

// Load builds a validated Configuration from v. Unset keys keep their
// defaults. When the config key names a file it is read first, so flags and
// environment variables still win over it.
func Load(v *viper.Viper) (*Configuration, error) {
	setDefaults(v)

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
	}

	cfg := NewConfigurationWithOptionsAndDefaults(
		WithLogFormat(v.GetString(KeyLogFormat)),
		WithLogLevel(v.GetString(KeyLogLevel)),
		WithLoop(*NewLoopWithOptions(
			WithPollInterval(v.GetDuration(KeyPollInterval)),
			WithMaxPollInterval(v.GetDuration(KeyMaxPollInterval)),
			WithWatchInterval(v.GetDuration(KeyWatchInterval)),
			WithShutdownTimeout(v.GetDuration(KeyShutdownTimeout)),
		)),
		WithQueue(*NewQueueWithOptions(
			WithCapacity(v.GetInt(KeyQueueCapacity)),
			WithFullPolicy(v.GetString(KeyQueueFullPolicy)),
		)),
		WithDemo(*NewDemoWithOptions(
			WithMessages(v.GetInt(KeyMessages)),
			WithMessageInterval(v.GetDuration(KeyMessageInterval)),
			WithClicks(v.GetInt(KeyClicks)),
			WithClickInterval(v.GetDuration(KeyClickInterval)),
			WithWorkDuration(v.GetDuration(KeyWorkDuration)),
			WithSlowSteps(v.GetInt(KeySlowSteps)),
			WithClockInterval(v.GetDuration(KeyClockInterval)),
			WithRunFor(v.GetDuration(KeyRunFor)),
		)),
		WithServer(*NewServerWithOptions(
			WithServerMode(v.GetString(KeyServerMode)),
			WithHTTPPort(v.GetInt(KeyHTTPPort)),
		)),
	)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
