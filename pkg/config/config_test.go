package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/turnexec/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file", func() {
			data := `version = 0

[executor]
backend = "interp"
timeout = 5

[journal]
sqlite_path = "runs.db"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Executor.Backend).To(Equal("interp"))
			Expect(cfg.Executor.Timeout).To(Equal(5))
			Expect(cfg.Journal.SQLitePath).To(Equal("runs.db"))
		})

		It("fills in defaults for unset fields in a partial config", func() {
			data := `[dataset]
input = "data/in.json"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Dataset.Input).To(Equal("data/in.json"))
			Expect(cfg.Dataset.Output).To(Equal(defaults.Dataset.Output))
			Expect(cfg.Executor).To(Equal(defaults.Executor))
			Expect(cfg.Checkpoint).To(Equal(defaults.Checkpoint))
			Expect(cfg.Progress).To(Equal(defaults.Progress))
			Expect(cfg.Events.KafkaTopic).To(Equal(defaults.Events.KafkaTopic))
		})

		It("rejects an unsupported version", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("version = 7\n"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 7")))
		})

		It("rejects malformed TOML", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[executor\n"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("parsing config TOML")))
		})
	})

	Describe("SaveConfig", func() {
		It("round trips through LoadConfig", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Executor.Shell = "/bin/bash"
			cfg.Events.KafkaBrokers = "localhost:9092"
			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("rejects a nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(MatchError("cannot save nil config"))
		})

		It("creates the home directory when none exists", func() {
			work := filepath.Join(tmpDir, "work")
			Expect(os.Mkdir(work, 0o755)).To(Succeed())
			origDir, err := os.Getwd()
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Chdir(work)).To(Succeed())
			DeferCleanup(func() { os.Chdir(origDir) })
			GinkgoT().Setenv("HOME", tmpDir)

			c, err := config.NewConfiger("")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.GetTarget()).To(BeEmpty())

			Expect(c.SetConfigValue("executor.timeout", "12")).To(Succeed())
			Expect(filepath.Join(tmpDir, ".turnexec", "config.toml")).To(BeAnExistingFile())
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets and gets string keys", func() {
			Expect(c.SetConfigValue("dataset.output", "out.json")).To(Succeed())

			v, err := c.GetConfigValue("dataset.output")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("out.json"))
		})

		It("sets and gets integer keys", func() {
			Expect(c.SetConfigValue("checkpoint.every", "25")).To(Succeed())

			v, err := c.GetConfigValue("checkpoint.every")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("25"))
		})

		It("rejects non-numeric integers", func() {
			err := c.SetConfigValue("executor.timeout", "soon")
			Expect(err).To(MatchError(ContainSubstring("invalid value for executor.timeout")))
		})

		It("rejects non-positive integers", func() {
			err := c.SetConfigValue("progress.preview_length", "0")
			Expect(err).To(MatchError(ContainSubstring("must be positive")))
		})

		It("rejects unknown keys", func() {
			Expect(c.SetConfigValue("proxy.listen", ":8080")).To(MatchError(ContainSubstring("unknown config key")))

			_, err := c.GetConfigValue("proxy.listen")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("keeps other values when setting one key", func() {
			Expect(c.SetConfigValue("executor.backend", "interp")).To(Succeed())
			Expect(c.SetConfigValue("executor.timeout", "3")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Executor.Backend).To(Equal("interp"))
			Expect(cfg.Executor.Timeout).To(Equal(3))
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("lists every key in section order", func() {
		keys := config.ValidConfigKeys()
		Expect(keys).To(HaveLen(10))
		Expect(keys[0]).To(Equal("dataset.input"))
		Expect(keys).To(ContainElements("executor.timeout", "journal.sqlite_path", "events.kafka_topic"))
	})

	It("agrees with IsValidConfigKey", func() {
		for _, k := range config.ValidConfigKeys() {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
		Expect(config.IsValidConfigKey("bogus")).To(BeFalse())
	})
})

var _ = Describe("Validate", func() {
	It("accepts the defaults", func() {
		Expect(config.NewDefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects unusable values",
		func(mutate func(*config.Config), msg string) {
			cfg := config.NewDefaultConfig()
			mutate(cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(msg)))
		},
		Entry("unknown backend", func(c *config.Config) { c.Executor.Backend = "docker" }, "unknown executor backend"),
		Entry("zero timeout", func(c *config.Config) { c.Executor.Timeout = 0 }, "timeout must be positive"),
		Entry("overflowing timeout", func(c *config.Config) { c.Executor.Timeout = 1 << 34 }, "must not exceed"),
		Entry("negative cadence", func(c *config.Config) { c.Checkpoint.Every = -1 }, "cadence must be positive"),
		Entry("zero preview", func(c *config.Config) { c.Progress.PreviewLength = 0 }, "preview length must be positive"),
	)
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns viper with defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(config.FromViper(v)).To(Equal(config.NewDefaultConfig()))
	})

	It("reads config file values over defaults", func() {
		data := `[executor]
timeout = 9
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetInt("executor.timeout")).To(Equal(9))
		Expect(v.GetString("executor.backend")).To(Equal("exec"))
	})

	It("respects environment variables with TURNEXEC_ prefix", func() {
		GinkgoT().Setenv("TURNEXEC_EXECUTOR_BACKEND", "interp")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("executor.backend")).To(Equal("interp"))
	})

	It("env vars take precedence over config file values", func() {
		data := `[journal]
sqlite_path = "file.db"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		GinkgoT().Setenv("TURNEXEC_JOURNAL_SQLITE_PATH", "env.db")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(config.FromViper(v).Journal.SQLitePath).To(Equal("env.db"))
	})
})

var _ = Describe("Flags", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "bindflag-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("binds cobra flags to viper keys via registry", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var timeout int
		config.AddIntFlag(cmd, config.RunFlags, config.FlagTimeout, &timeout)

		Expect(cmd.Flags().Set("timeout", "4")).To(Succeed())
		config.BindRegisteredFlags(v, cmd, config.RunFlags, []string{config.FlagTimeout})

		Expect(v.GetInt("executor.timeout")).To(Equal(4))
	})

	It("falls through to config when flag not set", func() {
		data := `[dataset]
output = "from-file.json"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var output string
		config.AddStringFlag(cmd, config.RunFlags, config.FlagOutput, &output)

		config.BindRegisteredFlags(v, cmd, config.RunFlags, []string{config.FlagOutput})

		Expect(v.GetString("dataset.output")).To(Equal("from-file.json"))
	})

	It("skips bindings for nonexistent registry keys", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		config.BindRegisteredFlags(v, cmd, config.FlagSet{}, []string{"nonexistent"})

		Expect(v.GetString("dataset.input")).To(Equal(config.NewDefaultConfig().Dataset.Input))
	})

	It("AddStringFlag pulls name, shorthand, and description from FlagSet", func() {
		cmd := &cobra.Command{Use: "test"}
		var input string
		config.AddStringFlag(cmd, config.RunFlags, config.FlagInput, &input)

		f := cmd.Flags().Lookup("input")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("i"))
		Expect(f.Usage).To(Equal("Input dataset JSON file"))
		Expect(f.DefValue).To(Equal("conversations.json"))
	})

	It("AddIntFlag registers int defaults", func() {
		cmd := &cobra.Command{Use: "test"}
		var timeout int
		config.AddIntFlag(cmd, config.RunFlags, config.FlagTimeout, &timeout)

		f := cmd.Flags().Lookup("timeout")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("t"))
		Expect(f.DefValue).To(Equal("30"))
	})

	It("ignores unknown registry keys when adding flags", func() {
		cmd := &cobra.Command{Use: "test"}
		var s string
		config.AddStringFlag(cmd, config.RunFlags, "bogus", &s)
		Expect(cmd.Flags().HasFlags()).To(BeFalse())
	})
})
