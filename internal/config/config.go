// Package config handles global cadence configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the user-level configuration loaded from
// ~/.config/cadence/config.toml. Every field has a working default; a missing
// file is not an error.
type Config struct {
	// Workspace is the default workspace directory. Empty means discover
	// from the working directory.
	Workspace string `toml:"workspace"`

	UI UIConfig `toml:"ui"`
}

type UIConfig struct {
	// Accent is an optional accent color for board highlights. ANSI codes
	// ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// AutoScrollMargin is how close (cells) the pointer must be to a board
	// edge before drag auto-scroll starts.
	AutoScrollMargin int `toml:"auto_scroll_margin"`

	// AutoScrollRate is cells scrolled per auto-scroll tick while dragging.
	AutoScrollRate int `toml:"auto_scroll_rate"`

	// Theme names a glamour standard style for rendering task notes
	// ("light", "dark", "dracula", ...). Empty means detect from the
	// terminal background.
	Theme string `toml:"theme"`
}

func Default() Config {
	return Config{
		UI: UIConfig{
			Accent:           "212",
			AutoScrollMargin: 2,
			AutoScrollRate:   1,
		},
	}
}

func Path() (string, error) {
	if p := os.Getenv("CADENCE_CONFIG"); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "cadence", "config.toml"), nil
}

// Load reads the config file, returning defaults when it does not exist.
func Load() (Config, error) {
	cfg := Default()
	p, err := Path()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if cfg.UI.AutoScrollMargin <= 0 {
		cfg.UI.AutoScrollMargin = Default().UI.AutoScrollMargin
	}
	if cfg.UI.AutoScrollRate <= 0 {
		cfg.UI.AutoScrollRate = Default().UI.AutoScrollRate
	}
	return cfg, nil
}

// Save writes the config file, creating parent directories as needed.
func Save(cfg Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
