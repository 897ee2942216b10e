package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent buddy configuration stored as config.toml
// in the .buddy/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Server    ServerConfig    `toml:"server"`
	Model     ModelConfig     `toml:"model"`
	Storage   StorageConfig   `toml:"storage"`
	Log       LogConfig       `toml:"log"`
	Client    ClientConfig    `toml:"client"`
	Events    EventsConfig    `toml:"events"`
	Scenarios ScenariosConfig `toml:"scenarios"`
}

// ServerConfig holds settings for "buddy serve".
type ServerConfig struct {
	Listen       string `toml:"listen,omitempty"`
	AllowOrigins string `toml:"allow_origins,omitempty"`
	Workers      uint   `toml:"workers,omitempty"`
	QueueSize    uint   `toml:"queue_size,omitempty"`
}

// ModelConfig selects the generation provider.
type ModelConfig struct {
	Provider string `toml:"provider,omitempty"`
	Name     string `toml:"name,omitempty"`
	Upstream string `toml:"upstream,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// StorageConfig selects the transcript store. A Postgres DSN wins over a
// SQLite path; with neither, transcripts are kept in memory.
type StorageConfig struct {
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// LogConfig holds conversation log and process log settings.
type LogConfig struct {
	// Dir is the conversation log root. "-" disables the conversation log.
	Dir string `toml:"dir,omitempty"`

	// File additionally writes the process log as JSON to this path.
	File string `toml:"file,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// server (buddy chat, buddy scenarios --remote).
type ClientConfig struct {
	Target string `toml:"target,omitempty"`
}

// EventsConfig holds the event stream settings. No brokers disables it.
type EventsConfig struct {
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// ScenariosConfig points at an optional custom scenario file.
type ScenariosConfig struct {
	File string `toml:"file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func uintKey(name string, field func(c *Config) *uint) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"server.allow_origins": {
		get: func(c *Config) string { return c.Server.AllowOrigins },
		set: func(c *Config, v string) error { c.Server.AllowOrigins = v; return nil },
	},
	"server.workers":    uintKey("server.workers", func(c *Config) *uint { return &c.Server.Workers }),
	"server.queue_size": uintKey("server.queue_size", func(c *Config) *uint { return &c.Server.QueueSize }),
	"model.provider": {
		get: func(c *Config) string { return c.Model.Provider },
		set: func(c *Config, v string) error { c.Model.Provider = v; return nil },
	},
	"model.name": {
		get: func(c *Config) string { return c.Model.Name },
		set: func(c *Config, v string) error { c.Model.Name = v; return nil },
	},
	"model.upstream": {
		get: func(c *Config) string { return c.Model.Upstream },
		set: func(c *Config, v string) error { c.Model.Upstream = v; return nil },
	},
	"model.api_key": {
		get: func(c *Config) string { return c.Model.APIKey },
		set: func(c *Config, v string) error { c.Model.APIKey = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"log.dir": {
		get: func(c *Config) string { return c.Log.Dir },
		set: func(c *Config, v string) error { c.Log.Dir = v; return nil },
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"scenarios.file": {
		get: func(c *Config) string { return c.Scenarios.File },
		set: func(c *Config, v string) error { c.Scenarios.File = v; return nil },
	},
}
