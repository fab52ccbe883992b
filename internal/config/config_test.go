package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kubev2v/loopbridge/internal/config"
	"github.com/kubev2v/loopbridge/pkg/queue"
)

var _ = Describe("Configuration", func() {
	Context("defaults", func() {
		It("should fill every section from the struct tags", func() {
			cfg := config.NewConfigurationWithOptionsAndDefaults()

			Expect(cfg.LogFormat).To(Equal("console"))
			Expect(cfg.LogLevel).To(Equal("info"))
			Expect(cfg.Loop.PollInterval).To(Equal(100 * time.Millisecond))
			Expect(cfg.Loop.WatchInterval).To(Equal(200 * time.Millisecond))
			Expect(cfg.Loop.ShutdownTimeout).To(Equal(5 * time.Second))
			Expect(cfg.Queue.Capacity).To(BeZero())
			Expect(cfg.Queue.FullPolicy).To(Equal("block"))
			Expect(cfg.Demo.Messages).To(Equal(10))
			Expect(cfg.Server.HTTPPort).To(Equal(8000))
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should let options override defaults", func() {
			cfg := config.NewConfigurationWithOptionsAndDefaults(
				config.WithLogLevel("debug"),
				config.WithQueue(*config.NewQueueWithOptionsAndDefaults(config.WithCapacity(4))),
			)
			Expect(cfg.LogLevel).To(Equal("debug"))
			Expect(cfg.Queue.Capacity).To(Equal(4))
			Expect(cfg.Queue.FullPolicy).To(Equal("block"))
		})

		It("should expose every field in the debug map", func() {
			m := config.NewConfigurationWithOptionsAndDefaults().DebugMap()
			Expect(m).To(HaveKey("Loop"))
			Expect(m).To(HaveKey("Queue"))
			Expect(m).To(HaveKey("Demo"))
			Expect(m).To(HaveKey("Server"))
			Expect(m).To(HaveKey("LogLevel"))
		})
	})

	DescribeTable("Validate",
		func(opt config.ConfigurationOption, wantErr string) {
			cfg := config.NewConfigurationWithOptionsAndDefaults(opt)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(wantErr)))
		},
		Entry("zero poll interval", config.WithLoop(config.Loop{WatchInterval: time.Second, ShutdownTimeout: time.Second}), "poll interval"),
		Entry("negative capacity", config.WithQueue(config.Queue{Capacity: -1}), "capacity"),
		Entry("unknown full policy", config.WithQueue(config.Queue{FullPolicy: "drop"}), "full policy"),
		Entry("unknown log format", config.WithLogFormat("xml"), "log format"),
		Entry("unknown server mode", config.WithServer(config.Server{ServerMode: "staging", HTTPPort: 1}), "server mode"),
	)

	Context("options", func() {
		It("should translate the queue section", func() {
			cfg := config.NewConfigurationWithOptionsAndDefaults(
				config.WithQueue(config.Queue{Capacity: 1, FullPolicy: "fail"}),
			)
			q := queue.New[int](cfg.QueueOptions()...)
			Expect(q.Cap()).To(Equal(1))
			Expect(q.TryPut(1)).To(Succeed())
			Expect(q.TryPut(2)).NotTo(Succeed())
		})

		It("should add a backoff option only when the cap exceeds the poll interval", func() {
			cfg := config.NewConfigurationWithOptionsAndDefaults()
			plain := cfg.BridgeOptions()

			cfg.Loop.MaxPollInterval = time.Second
			Expect(cfg.BridgeOptions()).To(HaveLen(len(plain) + 1))
		})
	})

	Context("Load", func() {
		var (
			v  *viper.Viper
			fs *pflag.FlagSet
		)

		BeforeEach(func() {
			v = viper.New()
			fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
			config.RegisterFlags(fs)
			Expect(v.BindPFlags(fs)).To(Succeed())
		})

		It("should return defaults when nothing is set", func() {
			cfg, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewConfigurationWithOptionsAndDefaults()))
		})

		It("should read changed flags", func() {
			Expect(fs.Parse([]string{"--poll-interval=25ms", "--clicks=7", "--queue-full-policy=fail"})).To(Succeed())

			cfg, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Loop.PollInterval).To(Equal(25 * time.Millisecond))
			Expect(cfg.Demo.Clicks).To(Equal(7))
			Expect(cfg.Queue.FullPolicy).To(Equal("fail"))
		})

		It("should read a configuration file and let flags win", func() {
			path := filepath.Join(GinkgoT().TempDir(), "loopbridge.yaml")
			Expect(os.WriteFile(path, []byte("log-level: debug\nmessages: 3\nwatch-interval: 1s\n"), 0o600)).To(Succeed())
			Expect(fs.Parse([]string{"--config=" + path, "--messages=5"})).To(Succeed())

			cfg, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.LogLevel).To(Equal("debug"))
			Expect(cfg.Loop.WatchInterval).To(Equal(time.Second))
			Expect(cfg.Demo.Messages).To(Equal(5))
		})

		It("should fail on a missing configuration file", func() {
			Expect(fs.Parse([]string{"--config=/does/not/exist.yaml"})).To(Succeed())
			_, err := config.Load(v)
			Expect(err).To(MatchError(ContainSubstring("failed to read configuration file")))
		})

		It("should reject invalid values", func() {
			Expect(fs.Parse([]string{"--log-format=xml"})).To(Succeed())
			_, err := config.Load(v)
			Expect(err).To(MatchError(ContainSubstring("invalid configuration")))
		})
	})
})
