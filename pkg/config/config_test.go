package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/globalbuddy/buddy/pkg/config"
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

		It("loads all config fields", func() {
			data := `version = 0

[server]
listen = ":9090"
allow_origins = "http://localhost:3000"
workers = 5
queue_size = 64

[model]
provider = "ollama"
name = "gemma3:4b"
upstream = "http://gpu-box:11434"

[storage]
sqlite_path = "/tmp/buddy.sqlite"

[log]
dir = "/var/log/buddy"
file = "/var/log/buddy/server.json"

[client]
target = "http://myhost:9090"

[events]
brokers = "kafka-1:9092,kafka-2:9092"
topic = "turns"

[scenarios]
file = "/etc/buddy/scenarios.toml"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.Listen).To(Equal(":9090"))
			Expect(cfg.Server.AllowOrigins).To(Equal("http://localhost:3000"))
			Expect(cfg.Server.Workers).To(Equal(uint(5)))
			Expect(cfg.Server.QueueSize).To(Equal(uint(64)))
			Expect(cfg.Model.Provider).To(Equal("ollama"))
			Expect(cfg.Model.Name).To(Equal("gemma3:4b"))
			Expect(cfg.Model.Upstream).To(Equal("http://gpu-box:11434"))
			Expect(cfg.Storage.SQLitePath).To(Equal("/tmp/buddy.sqlite"))
			Expect(cfg.Log.Dir).To(Equal("/var/log/buddy"))
			Expect(cfg.Log.File).To(Equal("/var/log/buddy/server.json"))
			Expect(cfg.Client.Target).To(Equal("http://myhost:9090"))
			Expect(cfg.Events.Brokers).To(Equal("kafka-1:9092,kafka-2:9092"))
			Expect(cfg.Events.Topic).To(Equal("turns"))
			Expect(cfg.Scenarios.File).To(Equal("/etc/buddy/scenarios.toml"))
		})

		It("returns error for malformed TOML", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid toml [[["), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})

		It("returns error for unsupported config version", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("version = 99\n"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version")))
			Expect(cfg).To(BeNil())
		})

		It("fills in defaults for unset fields in a partial config", func() {
			data := `[model]
provider = "ollama"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Model.Provider).To(Equal("ollama"))
			Expect(cfg.Server.Listen).To(Equal(defaults.Server.Listen))
			Expect(cfg.Server.Workers).To(Equal(defaults.Server.Workers))
			Expect(cfg.Log.Dir).To(Equal(defaults.Log.Dir))
			Expect(cfg.Client.Target).To(Equal(defaults.Client.Target))
			Expect(cfg.Events.Topic).To(Equal(defaults.Events.Topic))
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk", func() {
			cfg := config.NewDefaultConfig()
			cfg.Model.Provider = "ollama"
			cfg.Storage.SQLitePath = "/data/buddy.db"

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(cfg)).To(Succeed())

			data, err := os.ReadFile(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`provider = "ollama"`))
			Expect(string(data)).To(ContainSubstring(`sqlite_path = "/data/buddy.db"`))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(MatchError("cannot save nil config"))
		})

		It("round-trips through LoadConfig", func() {
			cfg := config.NewDefaultConfig()
			cfg.Server.AllowOrigins = "https://buddy.example"
			cfg.Events.Brokers = "localhost:9092"
			cfg.Scenarios.File = "scenarios.toml"

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})
	})

	Describe("SetConfigValue", func() {
		It("sets a string config key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("model.name", "gemini-2.5-flash")).To(Succeed())

			val, err := c.GetConfigValue("model.name")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("gemini-2.5-flash"))
		})

		It("sets a uint config key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("server.workers", "8")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.Workers).To(Equal(uint(8)))
		})

		It("returns error for invalid uint value", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SetConfigValue("server.queue_size", "lots")
			Expect(err).To(MatchError(ContainSubstring("invalid value for server.queue_size")))
		})

		It("returns error for unknown key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SetConfigValue("proxy.upstream", "x")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("preserves existing values when setting a new key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("model.provider", "ollama")).To(Succeed())
			Expect(c.SetConfigValue("events.brokers", "localhost:9092")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Model.Provider).To(Equal("ollama"))
			Expect(cfg.Events.Brokers).To(Equal("localhost:9092"))
		})
	})

	Describe("GetConfigValue", func() {
		It("returns default value when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			val, err := c.GetConfigValue("client.target")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("http://localhost:8080"))
		})

		It("returns empty string for key with no default", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			val, err := c.GetConfigValue("storage.postgres_dsn")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeEmpty())
		})

		It("returns error for unknown key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.GetConfigValue("nope")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("returns every key in section order", func() {
		keys := config.ValidConfigKeys()
		Expect(keys).To(HaveLen(16))
		Expect(keys[0]).To(Equal("server.listen"))
		Expect(keys[len(keys)-1]).To(Equal("scenarios.file"))
		for _, k := range keys {
			Expect(config.IsValidConfigKey(k)).To(BeTrue())
		}
	})

	It("rejects unknown keys", func() {
		Expect(config.IsValidConfigKey("listen")).To(BeFalse())
		Expect(config.IsValidConfigKey("proxy.listen")).To(BeFalse())
	})
})

var _ = Describe("PresetConfig", func() {
	It("returns the gemini preset", func() {
		cfg, err := config.PresetConfig("gemini")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Model.Provider).To(Equal("gemini"))
		Expect(cfg.Model.Name).To(Equal("gemini-2.0-flash"))
	})

	It("returns the ollama preset with an upstream", func() {
		cfg, err := config.PresetConfig("Ollama")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Model.Provider).To(Equal("ollama"))
		Expect(cfg.Model.Upstream).To(Equal("http://localhost:11434"))
		Expect(cfg.Server.Listen).To(Equal(":8080"))
	})

	It("returns error for unknown preset", func() {
		_, err := config.PresetConfig("openai")
		Expect(err).To(MatchError(ContainSubstring("unknown preset")))
	})

	It("lists preset names", func() {
		Expect(config.ValidPresetNames()).To(ConsistOf("gemini", "ollama"))
	})
})

var _ = Describe("ParseConfigTOML", func() {
	It("returns empty config for empty input", func() {
		cfg, err := config.ParseConfigTOML([]byte(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(*cfg).To(Equal(config.Config{}))
	})

	It("rejects unsupported config version", func() {
		_, err := config.ParseConfigTOML([]byte("version = 2\n"))
		Expect(err).To(HaveOccurred())
	})
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

		Expect(v.GetString("server.listen")).To(Equal(":8080"))
		Expect(v.GetString("model.provider")).To(Equal("gemini"))
		Expect(v.GetString("log.dir")).To(Equal("logs"))
		Expect(v.GetUint("server.workers")).To(Equal(uint(3)))
		Expect(v.GetString("events.topic")).To(Equal("buddy.turns"))
	})

	It("reads config file values over defaults", func() {
		data := `[model]
provider = "ollama"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("model.provider")).To(Equal("ollama"))
		Expect(v.GetString("server.listen")).To(Equal(":8080"))
	})

	It("env vars take precedence over config file values", func() {
		data := `[model]
provider = "ollama"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		GinkgoT().Setenv("BUDDY_MODEL_PROVIDER", "gemini")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("model.provider")).To(Equal("gemini"))
	})
})

var _ = Describe("Flag registry", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "bindflag-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("binds cobra flags to viper keys", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var listen string
		config.AddStringFlag(cmd, config.Flags, config.FlagListen, &listen)
		Expect(cmd.Flags().Set("listen", ":7777")).To(Succeed())

		config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagListen})
		Expect(v.GetString("server.listen")).To(Equal(":7777"))
	})

	It("falls through to config when flag not set", func() {
		data := `[server]
listen = ":5555"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var listen string
		config.AddStringFlag(cmd, config.Flags, config.FlagListen, &listen)

		config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagListen})
		Expect(v.GetString("server.listen")).To(Equal(":5555"))
	})

	It("skips bindings for nonexistent registry keys", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		config.BindRegisteredFlags(v, cmd, config.Flags, []string{"nonexistent"})
		Expect(v.GetString("server.listen")).To(Equal(":8080"))
	})

	It("AddStringFlag pulls name, shorthand, and default from the registry", func() {
		cmd := &cobra.Command{Use: "test"}
		var target string
		config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &target)

		f := cmd.Flags().Lookup("target")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("t"))
		Expect(f.Usage).To(Equal("Buddy server URL"))
		Expect(f.DefValue).To(Equal("http://localhost:8080"))
	})

	It("AddUintFlag uses the configured default", func() {
		cmd := &cobra.Command{Use: "test"}
		var workers uint
		config.AddUintFlag(cmd, config.Flags, config.FlagWorkers, &workers)

		f := cmd.Flags().Lookup("workers")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal("3"))
	})

	It("maps every registered flag to a known config key", func() {
		for _, f := range config.Flags {
			Expect(config.IsValidConfigKey(f.ViperKey)).To(BeTrue(), f.Name)
		}
	})
})
