package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Collector CollectorConfig `yaml:"collector"`
	Endpoint  EndpointConfig  `yaml:"endpoint"`
	Intake    IntakeConfig    `yaml:"intake"`
	Identity  IdentityConfig  `yaml:"identity"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Journal   JournalConfig   `yaml:"journal"`
	Page      PageConfig      `yaml:"page"`
}

type CollectorConfig struct {
	FlushIntervalMs int64 `yaml:"flush_interval_ms"`
	MinIntervalMs   int64 `yaml:"min_interval_ms"`
}

type EndpointConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int64  `yaml:"timeout_ms"`
	Version   string `yaml:"version"`
}

type IntakeConfig struct {
	Addr string `yaml:"addr"`
}

type IdentityConfig struct {
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type PageConfig struct {
	URL       string `yaml:"url"`
	UserAgent string `yaml:"user_agent"`
	Language  string `yaml:"language"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Collector.FlushIntervalMs == 0 {
		cfg.Collector.FlushIntervalMs = 1000
	}
	if cfg.Collector.MinIntervalMs == 0 {
		cfg.Collector.MinIntervalMs = 10
	}
	if cfg.Endpoint.BaseURL == "" {
		cfg.Endpoint.BaseURL = "http://localhost:7878"
	}
	if cfg.Endpoint.Version == "" {
		cfg.Endpoint.Version = "1.0"
	}
	if cfg.Intake.Addr == "" {
		cfg.Intake.Addr = ":8089"
	}
	if cfg.Identity.Backend == "" {
		cfg.Identity.Backend = "file"
	}
	if cfg.Identity.Dir == "" {
		cfg.Identity.Dir = "webai-data"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "webai.packets"
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "webai-data/journal.db"
	}
	if cfg.Page.Language == "" {
		cfg.Page.Language = "en-US"
	}

	return &cfg, nil
}
