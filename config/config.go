package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Guardian GuardianConfig `yaml:"guardian"`
}

// GuardianConfig is the project configuration.
type GuardianConfig struct {
	Seed         SeedConfig    `yaml:"seed"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Audit        AuditConfig   `yaml:"audit"`
	Bus          BusConfig     `yaml:"bus"`
	Server       ServerConfig  `yaml:"server"`
	Logging      LoggingConfig `yaml:"logging"`
}

// SeedConfig points at an optional incident seed file. When Path is
// empty the built-in incident is used.
type SeedConfig struct {
	Path string `yaml:"path"`
}

// AuditConfig controls the audit trail sinks.
type AuditConfig struct {
	Enabled bool             `yaml:"enabled"`
	Mode    string           `yaml:"mode"` // file|redis|both
	File    FileOutputConfig `yaml:"file"`
	Redis   RedisConfig      `yaml:"redis"`
}

// FileOutputConfig config for local JSONL output.
type FileOutputConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig controls the Redis audit publisher.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// BusConfig controls the NATS event publisher.
type BusConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// ServerConfig controls the HTTP transport (serve mode).
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
