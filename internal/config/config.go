package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so values like "30m" decode from both yaml and
// environment variables.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Config is the root configuration for the dynmcp gateway. Values are layered:
// struct defaults, then config/default.yaml, then config/<RUN_MODE>.yaml, then
// environment variables.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Log        LogConfig        `yaml:"log"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Session    SessionConfig    `yaml:"session"`
	Outbound   OutboundConfig   `yaml:"outbound"`
	Broadcast  BroadcastConfig  `yaml:"broadcast"`
}

type AppConfig struct {
	Host string `yaml:"host" env:"APP_HOST"`
	Port int    `yaml:"port" env:"APP_PORT"`
	// DataSource selects the backing store driver: etcd, mysql or redis.
	DataSource string `yaml:"data_source" env:"APP_DATA_SOURCE"`
	// APIKey guards the /admin surface via the x-api-key header.
	APIKey string `yaml:"api_key" env:"APP_API_KEY"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	// Dir and Name route a JSON copy of the log stream to a file when Dir is set.
	Dir  string `yaml:"dir" env:"LOG_DIR"`
	Name string `yaml:"name" env:"LOG_NAME"`
}

type DataSourceConfig struct {
	Etcd  EtcdConfig  `yaml:"etcd"`
	MySQL MySQLConfig `yaml:"mysql"`
	Redis RedisConfig `yaml:"redis"`
}

type EtcdConfig struct {
	Endpoints []string `yaml:"endpoints" env:"ETCD_ENDPOINTS" envSeparator:","`
	Username  string   `yaml:"username" env:"ETCD_USERNAME"`
	Password  string   `yaml:"password" env:"ETCD_PASSWORD"`
}

type MySQLConfig struct {
	URL string `yaml:"url" env:"MYSQL_URL"`
}

type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}

type SessionConfig struct {
	Capacity int      `yaml:"capacity" env:"SESSION_CAPACITY"`
	TTL      Duration `yaml:"ttl" env:"SESSION_TTL"`
}

type OutboundConfig struct {
	// Timeout bounds outbound tool calls. Zero disables the deadline.
	Timeout Duration `yaml:"timeout" env:"OUTBOUND_TIMEOUT"`
}

type BroadcastConfig struct {
	Capacity int `yaml:"capacity" env:"BROADCAST_CAPACITY"`
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Host:       "0.0.0.0",
			Port:       9000,
			DataSource: "etcd",
		},
		Log: LogConfig{
			Level: "info",
			Name:  "dynmcp.log",
		},
		DataSource: DataSourceConfig{
			Etcd: EtcdConfig{
				Endpoints: []string{"http://127.0.0.1:2379"},
			},
		},
		Session: SessionConfig{
			Capacity: 1000,
			TTL:      Duration(30 * time.Minute),
		},
		Broadcast: BroadcastConfig{
			Capacity: 1024,
		},
	}
}

// Load reads the file hierarchy under CONFIG_DIR (default "config") and applies
// environment overrides. The default file is required; the RUN_MODE overlay is not.
func Load() (*Config, error) {
	cfg := defaults()

	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	runMode := os.Getenv("RUN_MODE")
	if runMode == "" {
		runMode = "dev"
	}

	if err := applyFile(cfg, filepath.Join(configDir, "default.yaml"), true); err != nil {
		return nil, err
	}
	if err := applyFile(cfg, filepath.Join(configDir, runMode+".yaml"), false); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.App.DataSource {
	case "etcd", "mysql", "redis":
	default:
		return fmt.Errorf("unknown data source type: %s", c.App.DataSource)
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app.port: %d", c.App.Port)
	}
	return nil
}
