package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name       string
		configEnv  string
		homeEnv    string
		wantConfig string
		wantBase   string
	}{
		{
			name:       "env overrides",
			configEnv:  "/custom/config.toml",
			homeEnv:    "/custom/quire",
			wantConfig: "/custom/config.toml",
			wantBase:   "/custom/quire",
		},
		{
			name:       "home fallbacks",
			wantConfig: filepath.Join(home, ".config", "quire.toml"),
			wantBase:   filepath.Join(home, ".local", "share", "quire"),
		},
		{
			name:       "only home set",
			homeEnv:    "/srv/quire",
			wantConfig: filepath.Join(home, ".config", "quire.toml"),
			wantBase:   "/srv/quire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(configPathEnv, tt.configEnv)
			t.Setenv(homeEnv, tt.homeEnv)

			got, err := DefaultPaths()
			if err != nil {
				t.Fatalf("DefaultPaths() error = %v", err)
			}
			if got.ConfigPath != tt.wantConfig {
				t.Errorf("ConfigPath = %q, want %q", got.ConfigPath, tt.wantConfig)
			}
			if got.BaseDir != tt.wantBase {
				t.Errorf("BaseDir = %q, want %q", got.BaseDir, tt.wantBase)
			}
			if want := filepath.Join(tt.wantBase, "log"); got.LogDir != want {
				t.Errorf("LogDir = %q, want %q", got.LogDir, want)
			}
		})
	}
}
