// Package appconfig loads the CLI and server settings from TOML.
package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath = "dynform.toml"
	DefaultHTTPAddr   = ":8080"
	DefaultFormPath   = "/"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
	Form   FormConfig   `toml:"form"`
	Theme  ThemeConfig  `toml:"theme"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP listen address and the CSRF toggle.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	CSRF       bool   `toml:"csrf"`
	LogRequest bool   `toml:"log_requests"`
}

// FormConfig points at the form document and the path it is mounted at.
// An empty Config uses the embedded sample form.
type FormConfig struct {
	Config string `toml:"config"`
	Path   string `toml:"path"`
	Strict bool   `toml:"strict"`
	Preset string `toml:"preset"`
}

// ThemeConfig selects a go-theme manifest. Manifest is a JSON file.
type ThemeConfig struct {
	Manifest string `toml:"manifest"`
	Name     string `toml:"name"`
	Variant  string `toml:"variant"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Form: FormConfig{
			Path: DefaultFormPath,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; an
// empty path means DefaultConfigPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("appconfig: stat %s: %w", path, err)
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("appconfig: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("appconfig: unknown key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}
