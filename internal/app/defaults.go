package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	configPathEnv = "QUIRE_CONFIG_PATH"
	homeEnv       = "QUIRE_HOME"
)

// Paths holds the locations quire uses when the config file does not say otherwise.
type Paths struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// DefaultPaths resolves Paths from QUIRE_CONFIG_PATH and QUIRE_HOME,
// falling back to ~/.config/quire.toml and ~/.local/share/quire.
func DefaultPaths() (Paths, error) {
	var home string
	resolve := func(env string, elem ...string) (string, error) {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
		if home == "" {
			h, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			home = h
		}
		return filepath.Join(append([]string{home}, elem...)...), nil
	}

	configPath, err := resolve(configPathEnv, ".config", "quire.toml")
	if err != nil {
		return Paths{}, err
	}
	baseDir, err := resolve(homeEnv, ".local", "share", "quire")
	if err != nil {
		return Paths{}, err
	}

	return Paths{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}
