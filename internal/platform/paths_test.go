package platform

import (
	"path/filepath"
	"testing"
)

// TestPathsFor verifies per-OS resolution from explicit inputs.
func TestPathsFor(t *testing.T) {
	tests := []struct {
		name       string
		goos       string
		env        map[string]string
		configDir  string
		dataDir    string
		wantConfig string
		wantData   string
	}{
		{
			name:       "linux xdg",
			goos:       "linux",
			env:        map[string]string{"XDG_CONFIG_HOME": "/xdg/config", "XDG_DATA_HOME": "/xdg/data"},
			configDir:  "/fallback/config",
			dataDir:    "/fallback/data",
			wantConfig: filepath.Join("/xdg/config", "expedientes", "config.toml"),
			wantData:   filepath.Join("/xdg/data", "expedientes"),
		},
		{
			name:       "linux without xdg",
			goos:       "linux",
			env:        map[string]string{},
			configDir:  "/home/me/.config",
			dataDir:    "/home/me/.local/share",
			wantConfig: filepath.Join("/home/me/.config", "expedientes", "config.toml"),
			wantData:   filepath.Join("/home/me/.local/share", "expedientes"),
		},
		{
			name:       "windows appdata",
			goos:       "windows",
			env:        map[string]string{"APPDATA": `C:\Roaming`, "LOCALAPPDATA": `C:\Local`},
			configDir:  `C:\fallback\config`,
			dataDir:    `C:\fallback\data`,
			wantConfig: filepath.Join(`C:\Roaming`, "expedientes", "config.toml"),
			wantData:   filepath.Join(`C:\Local`, "expedientes"),
		},
		{
			name:       "darwin ignores xdg",
			goos:       "darwin",
			env:        map[string]string{"XDG_CONFIG_HOME": "/ignored", "XDG_DATA_HOME": "/ignored"},
			configDir:  "/Users/me/Library/Application Support",
			dataDir:    "/Users/me/Library/Application Support",
			wantConfig: filepath.Join("/Users/me/Library/Application Support", "expedientes", "config.toml"),
			wantData:   filepath.Join("/Users/me/Library/Application Support", "expedientes"),
		},
		{
			name:       "unknown os",
			goos:       "freebsd",
			env:        nil,
			configDir:  "/cfg",
			dataDir:    "/data",
			wantConfig: filepath.Join("/cfg", "expedientes", "config.toml"),
			wantData:   filepath.Join("/data", "expedientes"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PathsFor(tt.goos, tt.env, tt.configDir, tt.dataDir, "expedientes")
			if err != nil {
				t.Fatalf("PathsFor() error = %v", err)
			}
			if p.ConfigPath != tt.wantConfig {
				t.Fatalf("unexpected config path %q, want %q", p.ConfigPath, tt.wantConfig)
			}
			if p.DataDir != tt.wantData {
				t.Fatalf("unexpected data dir %q, want %q", p.DataDir, tt.wantData)
			}
			if p.DBPath != filepath.Join(tt.wantData, "expedientes.db") {
				t.Fatalf("unexpected db path %q", p.DBPath)
			}
			if p.LogDir != filepath.Join(tt.wantData, "log") {
				t.Fatalf("unexpected log dir %q", p.LogDir)
			}
			if p.ExportDir != filepath.Join(tt.wantData, "exports") {
				t.Fatalf("unexpected export dir %q", p.ExportDir)
			}
		})
	}
}

// TestPathsForRejectsEmptyInputs verifies empty base dirs and app names fail.
func TestPathsForRejectsEmptyInputs(t *testing.T) {
	if _, err := PathsFor("darwin", nil, "", "/tmp/data", "expedientes"); err == nil {
		t.Fatal("expected error for empty dirs")
	}
	if _, err := PathsFor("linux", nil, "/cfg", "/data", "  "); err == nil {
		t.Fatal("expected error for empty app name")
	}
}

// TestDefaultPathsSmoke verifies the current host resolves non-empty paths.
func TestDefaultPathsSmoke(t *testing.T) {
	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if p.ConfigPath == "" || p.DBPath == "" || p.DataDir == "" {
		t.Fatalf("expected non-empty paths, got %#v", p)
	}
	if filepath.Base(p.DBPath) != "expedientes.db" {
		t.Fatalf("expected default app db name, got %q", p.DBPath)
	}
}

// TestDefaultPathsWithOptionsDevMode verifies the dev suffix.
func TestDefaultPathsWithOptionsDevMode(t *testing.T) {
	p, err := DefaultPathsWithOptions(Options{AppName: "expedientes", DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPathsWithOptions() error = %v", err)
	}
	if filepath.Base(filepath.Dir(p.ConfigPath)) != "expedientes-dev" {
		t.Fatalf("expected dev config dir suffix, got %q", p.ConfigPath)
	}
	if filepath.Base(p.DBPath) != "expedientes-dev.db" {
		t.Fatalf("expected dev db name, got %q", p.DBPath)
	}
}
