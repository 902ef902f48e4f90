package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the full taskboard configuration
type Config struct {
	DB     DBConfig     `yaml:"db" mapstructure:"db"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	UI     UIConfig     `yaml:"ui" mapstructure:"ui"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DBConfig configures storage
type DBConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // empty: XDG data dir
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// UIConfig configures the terminal board
type UIConfig struct {
	View string `yaml:"view" mapstructure:"view"` // "kanban" or "list"
}

// LogConfig configures the debug log
type LogConfig struct {
	File string `yaml:"file" mapstructure:"file"` // empty: logging disabled in the TUI
}

const (
	ViewKanban = "kanban"
	ViewList   = "list"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		UI:     UIConfig{View: ViewKanban},
	}
}

// Load reads the config file at path over the defaults. A missing file is not
// an error. TASKBOARD_* environment variables override both, e.g.
// TASKBOARD_DB_PATH or TASKBOARD_SERVER_ADDR.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("taskboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults must be registered for AutomaticEnv to see nested keys
	v.SetDefault("db.path", cfg.DB.Path)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("ui.view", cfg.UI.View)
	v.SetDefault("log.file", cfg.Log.File)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.UI.View {
	case ViewKanban, ViewList:
	default:
		return fmt.Errorf("ui.view must be %q or %q, got %q", ViewKanban, ViewList, c.UI.View)
	}
	return nil
}

// DefaultPath returns the config file under the XDG config directory
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "taskboard", "config.yaml")
}

// WriteDefault writes the default configuration to path
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	content := "# taskboard configuration\n" + string(data)
	return os.WriteFile(path, []byte(content), 0644)
}
