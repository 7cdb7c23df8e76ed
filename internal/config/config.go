package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ServerAddr     string   `toml:"serverAddr"`
	AllowedOrigins []string `toml:"allowedOrigins"`
	// CatalogPath points at an alternate TOML catalog; empty means the
	// built-in seed catalog.
	CatalogPath string     `toml:"catalogPath"`
	Log         LogConfig  `toml:"log"`
	Call        CallConfig `toml:"call"`
}

type LogConfig struct {
	Dev        bool   `toml:"dev"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
	Level      string `toml:"level"`
}

// CallConfig carries the call simulator's timing knobs.
type CallConfig struct {
	ConnectDelay  time.Duration `toml:"connectDelay"`
	TeardownDelay time.Duration `toml:"teardownDelay"`
	TickInterval  time.Duration `toml:"tickInterval"`
	IncomingMin   time.Duration `toml:"incomingMin"`
	IncomingMax   time.Duration `toml:"incomingMax"`
}

func Default() *Config {
	return &Config{
		ServerAddr:     "localhost:8000",
		AllowedOrigins: []string{"http://localhost:3000"},
		Log: LogConfig{
			Dev:        true,
			FileName:   "logs/multiverse.log",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Level:      "info",
		},
		Call: CallConfig{
			ConnectDelay:  2 * time.Second,
			TeardownDelay: time.Second,
			TickInterval:  time.Second,
			IncomingMin:   15 * time.Second,
			IncomingMax:   45 * time.Second,
		},
	}
}

// Load decodes a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.Call.ConnectDelay <= 0 || c.Call.TeardownDelay <= 0 || c.Call.TickInterval <= 0 {
		return fmt.Errorf("call delays must be positive")
	}
	if c.Call.IncomingMin <= 0 || c.Call.IncomingMax < c.Call.IncomingMin {
		return fmt.Errorf("incoming call window is invalid")
	}

	return nil
}
