package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings stash reads at startup.
type Config struct {
	LogFile  string
	LogLevel slog.Level
	MaxMemos int
}

const (
	defaultConfigPath = "~/.config/stash/config.toml"
	defaultLogFile    = "~/.local/share/stash/stash.log"
	defaultMaxMemos   = 100
)

// Load locates and parses the stash config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogFile  string `toml:"log_file"`
		LogLevel string `toml:"log_level"`
		MaxMemos *int   `toml:"max_memos"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level %q: %w", level, err)
		}
	}

	if raw.MaxMemos != nil {
		if *raw.MaxMemos < 0 {
			return Config{}, fmt.Errorf("parse config: max_memos must not be negative, got %d", *raw.MaxMemos)
		}
		cfg.MaxMemos = *raw.MaxMemos
	}

	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: slog.LevelInfo,
		MaxMemos: defaultMaxMemos,
	}
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
