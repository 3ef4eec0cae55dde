package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Source modes.
const (
	SourceNone      = "none"
	SourceWebSocket = "websocket"
	SourceMQTT      = "mqtt"
)

// MCP transport modes.
const (
	MCPHTTP  = "http"
	MCPStdio = "stdio"
	MCPOff   = "off"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Source    SourceConfig    `yaml:"source"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Feed      FeedConfig      `yaml:"feed"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// SourceConfig selects and configures the real-time event source.
type SourceConfig struct {
	Mode              string        `yaml:"mode"`
	URL               string        `yaml:"url"`
	Topic             string        `yaml:"topic"`
	ClientID          string        `yaml:"client_id"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	ReconnectAttempts int           `yaml:"reconnect_attempts"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
}

// DashboardConfig points the summary poller at the dashboard API.
// An empty URL polls this server's own stub routes.
type DashboardConfig struct {
	URL      string        `yaml:"url"`
	Interval time.Duration `yaml:"interval"`
}

type FeedConfig struct {
	Capacity     int `yaml:"capacity"`
	PersistLimit int `yaml:"persist_limit"`
}

// AuthConfig enables bearer token checks on the API when Token is set.
type AuthConfig struct {
	Token string `yaml:"token"`
	User  string `yaml:"user"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MCPConfig struct {
	Mode string `yaml:"mode"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "painel.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Source: SourceConfig{
			Mode:              SourceNone,
			Topic:             "painel",
			ClientID:          "painel-server",
			ReconnectAttempts: 5,
			ReconnectDelay:    time.Second,
		},
		Dashboard: DashboardConfig{
			Interval: 5 * time.Minute,
		},
		Feed: FeedConfig{
			Capacity:     100,
			PersistLimit: 1000,
		},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
		MCP: MCPConfig{
			Mode: MCPHTTP,
		},
	}

	if path := os.Getenv("PAINEL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enum fields and numeric ranges.
func (c Config) Validate() error {
	switch c.Source.Mode {
	case SourceNone, SourceWebSocket, SourceMQTT:
	default:
		return fmt.Errorf("invalid source mode %q", c.Source.Mode)
	}
	if c.Source.Mode != SourceNone && c.Source.URL == "" {
		return fmt.Errorf("source mode %q requires a url", c.Source.Mode)
	}
	switch c.MCP.Mode {
	case MCPHTTP, MCPStdio, MCPOff:
	default:
		return fmt.Errorf("invalid mcp mode %q", c.MCP.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Source.ReconnectAttempts < 0 {
		return fmt.Errorf("invalid reconnect attempts %d", c.Source.ReconnectAttempts)
	}
	if c.Dashboard.Interval <= 0 {
		return fmt.Errorf("invalid dashboard interval %s", c.Dashboard.Interval)
	}
	if c.Feed.Capacity <= 0 || c.Feed.PersistLimit <= 0 {
		return fmt.Errorf("invalid feed bounds capacity=%d persist_limit=%d", c.Feed.Capacity, c.Feed.PersistLimit)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("PAINEL_SERVER_HOST", &cfg.Server.Host)
	if err := setInt("PAINEL_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	setString("PAINEL_DB_PATH", &cfg.DB.Path)
	setString("PAINEL_LOG_LEVEL", &cfg.Log.Level)
	setString("PAINEL_LOG_PATH", &cfg.Log.Path)

	setString("PAINEL_SOURCE_MODE", &cfg.Source.Mode)
	setString("PAINEL_SOURCE_URL", &cfg.Source.URL)
	setString("PAINEL_SOURCE_TOPIC", &cfg.Source.Topic)
	setString("PAINEL_SOURCE_CLIENT_ID", &cfg.Source.ClientID)
	setString("PAINEL_SOURCE_USERNAME", &cfg.Source.Username)
	setString("PAINEL_SOURCE_PASSWORD", &cfg.Source.Password)
	if err := setInt("PAINEL_SOURCE_RECONNECT_ATTEMPTS", &cfg.Source.ReconnectAttempts); err != nil {
		return err
	}
	if err := setDuration("PAINEL_SOURCE_RECONNECT_DELAY", &cfg.Source.ReconnectDelay); err != nil {
		return err
	}

	setString("PAINEL_DASHBOARD_URL", &cfg.Dashboard.URL)
	if err := setDuration("PAINEL_DASHBOARD_INTERVAL", &cfg.Dashboard.Interval); err != nil {
		return err
	}

	if err := setInt("PAINEL_FEED_CAPACITY", &cfg.Feed.Capacity); err != nil {
		return err
	}
	if err := setInt("PAINEL_FEED_PERSIST_LIMIT", &cfg.Feed.PersistLimit); err != nil {
		return err
	}

	setString("PAINEL_AUTH_TOKEN", &cfg.Auth.Token)
	setString("PAINEL_AUTH_USER", &cfg.Auth.User)
	if err := setFloat("PAINEL_RATE_LIMIT_RPS", &cfg.RateLimit.RPS); err != nil {
		return err
	}
	if err := setInt("PAINEL_RATE_LIMIT_BURST", &cfg.RateLimit.Burst); err != nil {
		return err
	}
	setString("PAINEL_MCP_MODE", &cfg.MCP.Mode)
	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
