package diaglines

// config.go — activation-time configuration. Read once; the display mode it
// selects is immutable until the adapter is torn down and re-activated.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds everything read at activation. CurrentLineOnly is the one
// functional option; the rest is plumbing for logging and the render hook.
type Config struct {
	CurrentLineOnly bool   `toml:"current_line_only"`
	RenderModule    string `toml:"render_module"`
	LogFile         string `toml:"log_file"`
	LogVerbosity    int    `toml:"log_verbosity"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		CurrentLineOnly: false,
		RenderModule:    "lsp_lines.render",
		LogVerbosity:    1,
	}
}

// LoadConfig reads the config file, falling back to defaults when it does
// not exist. A present-but-unreadable file is an error: without the config
// the display mode cannot be determined, so activation must fail.
func LoadConfig() (*Config, error) {
	return loadConfig(configPath())
}

func loadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.RenderModule == "" {
		return nil, fmt.Errorf("config %s: render_module must not be empty", path)
	}
	return cfg, nil
}

// configPath resolves $XDG_CONFIG_HOME/diaglines/config.toml, falling back
// to ~/.config.
func configPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "diaglines", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "diaglines", "config.toml")
}
