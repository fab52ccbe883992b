// Package config defines the configuration structure for loopbridge.
//
// Configuration is organized into logical sections (Loop, Queue, Demo, Server)
// and uses code generation via optgen to create functional option helpers.
//
// # Configuration Structure
//
//	Configuration
//	├── Loop           - Poll, watch and shutdown timing
//	├── Queue          - Queue capacity and full policy
//	├── Demo           - Knobs of the demonstration programs
//	├── Server         - HTTP status server settings
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Loop Configuration
//
//	┌──────────────────┬─────────┬─────────────────────────────────────────────┐
//	│ Field            │ Default │ Description                                 │
//	├──────────────────┼─────────┼─────────────────────────────────────────────┤
//	│ PollInterval     │ 100ms   │ Delay between two polls of a result queue   │
//	│ MaxPollInterval  │ 0s      │ Exponential backoff cap, off when <= poll   │
//	│ WatchInterval    │ 200ms   │ Delay between two liveness checks           │
//	│ ShutdownTimeout  │ 5s      │ Time granted to consumers to drain          │
//	└──────────────────┴─────────┴─────────────────────────────────────────────┘
//
// # Queue Configuration
//
//	┌────────────┬─────────┬─────────────────────────────────────────┐
//	│ Field      │ Default │ Description                             │
//	├────────────┼─────────┼─────────────────────────────────────────┤
//	│ Capacity   │ 0       │ Maximum pending messages, 0 = unbounded │
//	│ FullPolicy │ "block" │ "block" waits, "fail" errors            │
//	└────────────┴─────────┴─────────────────────────────────────────┘
//
// # Demo Configuration
//
//	┌─────────────────┬─────────┬──────────────────────────────────────────┐
//	│ Field           │ Default │ Description                              │
//	├─────────────────┼─────────┼──────────────────────────────────────────┤
//	│ Messages        │ 10      │ Messages sent by the thread2loop worker  │
//	│ MessageInterval │ 1s      │ Pause between two of them                │
//	│ Clicks          │ 3       │ Simulated clicks in loop2thread          │
//	│ ClickInterval   │ 500ms   │ Pause between two clicks                 │
//	│ WorkDuration    │ 1s      │ Duration of one consumer unit of work    │
//	│ SlowSteps       │ 4       │ Steps of the isalive slow worker         │
//	│ ClockInterval   │ 1s      │ Clock label refresh interval             │
//	│ RunFor          │ 5s      │ Clock demo duration, 0 = until interrupt │
//	└─────────────────┴─────────┴──────────────────────────────────────────┘
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Loading
//
// Load reads a viper instance that has the command flags bound (see
// RegisterFlags). Precedence, highest first: changed flags, LOOPBRIDGE_*
// environment variables, the file named by --config, struct defaults.
//
// # Code Generation
//
// The package uses optgen to generate functional option helpers:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Loop Queue Demo Server
//
// Generated helpers include:
//
//   - NewConfigurationWithOptions(...ConfigurationOption) - Create with options
//   - NewConfigurationWithOptionsAndDefaults(...ConfigurationOption) - Create with defaults + options
//   - WithLoop(Loop), WithQueue(Queue), etc. - Set nested structs
//   - DebugMap() - Returns map for debug logging (respects debugmap tags)
//
// # Usage Example
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(
//	    config.WithLoop(*config.NewLoopWithOptionsAndDefaults(
//	        config.WithPollInterval(50 * time.Millisecond),
//	    )),
//	    config.WithLogLevel("debug"),
//	)
//	b := bridge.New(l, group, cfg.BridgeOptions()...)
//
// # Debug Logging
//
//	log.Info("configuration loaded", zap.Any("config", cfg.DebugMap()))
package config
