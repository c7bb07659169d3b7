// Package config handles gojs configuration: defaults, an optional TOML file
// and environment overrides. Command-line flags are applied last by cmd.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/itsmostafa/gojs/internal/engine/backends"
	"github.com/itsmostafa/gojs/internal/history"
	"github.com/itsmostafa/gojs/internal/logging"
)

// Environment variables read by ApplyEnv.
const (
	EnvBackend     = "GOJS_BACKEND"
	EnvHistory     = "GOJS_HISTORY"
	EnvHistorySize = "GOJS_HISTORY_SIZE"
)

// Config represents a gojs config.toml file.
type Config struct {
	Backend            string `toml:"backend"`
	Debug              bool   `toml:"debug"`
	HistoryFile        string `toml:"history_file"`
	HistorySize        int    `toml:"history_size"`
	Prompt             string `toml:"prompt"`
	ContinuationPrompt string `toml:"continuation_prompt"`
	LogLevel           string `toml:"log_level"`

	// Path is the file the config was read from (set at load time).
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:            backends.Default.String(),
		HistoryFile:        DefaultHistoryPath(),
		HistorySize:        history.DefaultSize,
		Prompt:             "> ",
		ContinuationPrompt: "... ",
		LogLevel:           "warning",
	}
}

// Dir returns the gojs config directory: $XDG_CONFIG_HOME/gojs, falling back
// to ~/.config/gojs.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gojs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gojs")
}

// DefaultPath returns the config file looked up when none is given.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// DefaultHistoryPath returns ~/.gojs_history, or "" when there is no home
// directory.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gojs_history")
}

// Load reads path over the defaults. An empty path means DefaultPath. A
// missing file is only an error when explicit is set.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// ApplyEnv overrides fields from GOJS_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvHistory); v != "" {
		c.HistoryFile = v
	}
	if v := os.Getenv(EnvHistorySize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvHistorySize, v, err)
		}
		c.HistorySize = n
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := backends.Parse(c.Backend); err != nil {
		return err
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative, got %d", c.HistorySize)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
