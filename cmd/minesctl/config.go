package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database is the SQLite file holding boards. A leading ~ expands to
	// the home directory.
	Database string `yaml:"database"`
	// Level is used by "new" when --level is not given.
	Level string `yaml:"level"`
	Size  int    `yaml:"size"`
	Seed  uint64 `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Database: "~/.minesctl/boards.db",
		Level:    "9",
	}
}

// LoadConfig reads the CLI configuration.
// Search order: customPath -> ~/.minesctl.yaml -> defaults
func LoadConfig(customPath string) (Config, error) {
	cfg := DefaultConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".minesctl.yaml")
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	return cfg, nil
}
