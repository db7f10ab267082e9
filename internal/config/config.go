package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Base URL of the streaming service API, e.g. "https://music.example.com/api"
	ServerURL string `koanf:"server_url"`

	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
	Playback PlaybackConfig `koanf:"playback"`
}

// AuthConfig holds credential acquisition settings. The token itself lives
// with the identity provider; this client only knows how to ask for it.
type AuthConfig struct {
	Token        string `koanf:"token"`         // static bearer token
	TokenCommand string `koanf:"token_command"` // shell command printing a fresh token
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Output string `koanf:"output"` // "stderr", "stdout", or "file"
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	File   string `koanf:"file"`   // log file path when output is "file"
}

// PlaybackConfig holds playback defaults applied at startup.
type PlaybackConfig struct {
	RestoreQueue *bool `koanf:"restore_queue"` // restore the saved queue on start (default: true)
	Telemetry    *bool `koanf:"telemetry"`     // report play counts (default: true)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.ServerURL = strings.TrimSuffix(cfg.ServerURL, "/")

	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/swell/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "swell", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasAuth returns true if a credential source is configured.
func (c *Config) HasAuth() bool {
	return c.Auth.Token != "" || c.Auth.TokenCommand != ""
}

// RestoreQueue returns the restore-queue setting with its default applied.
func (c *Config) RestoreQueue() bool {
	if c.Playback.RestoreQueue == nil {
		return true
	}
	return *c.Playback.RestoreQueue
}

// Telemetry returns the telemetry setting with its default applied.
func (c *Config) Telemetry() bool {
	if c.Playback.Telemetry == nil {
		return true
	}
	return *c.Playback.Telemetry
}
