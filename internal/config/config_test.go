package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		ProjectRoot: "/home/user/projects/widgets",
		LogDir:      "/home/user/.local/share/trk/log",
		Manifest:    ManifestConfig{Type: "filesystem"},
		Records:     RecordsConfig{Dir: "records"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.ProjectRoot != original.ProjectRoot {
		t.Errorf("ProjectRoot = %q, want %q", got.ProjectRoot, original.ProjectRoot)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Manifest.Type != "filesystem" {
		t.Errorf("Manifest.Type = %q, want %q", got.Manifest.Type, "filesystem")
	}
	if got.Records.Dir != "records" {
		t.Errorf("Records.Dir = %q, want %q", got.Records.Dir, "records")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/projects/widgets", "/data/trk/log")

	if cfg.ProjectRoot != "/projects/widgets" {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, "/projects/widgets")
	}
	if cfg.LogDir != "/data/trk/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/trk/log")
	}
	if cfg.Manifest.Type != "filesystem" {
		t.Errorf("Manifest.Type = %q, want %q", cfg.Manifest.Type, "filesystem")
	}
}

func TestConfig_RecordsDir(t *testing.T) {
	t.Run("joins configured dir to project root", func(t *testing.T) {
		cfg := NewConfig("/projects/widgets", "/log")
		want := filepath.Join("/projects/widgets", "records")
		if got := cfg.RecordsDir(); got != want {
			t.Errorf("RecordsDir() = %q, want %q", got, want)
		}
	})

	t.Run("defaults to records when unset", func(t *testing.T) {
		cfg := &Config{ProjectRoot: "/p"}
		want := filepath.Join("/p", "records")
		if got := cfg.RecordsDir(); got != want {
			t.Errorf("RecordsDir() = %q, want %q", got, want)
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "trk.toml")
		cfg := NewConfig(dir, filepath.Join(dir, "log"))

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "trk.toml")
		cfg := NewConfig(dir, filepath.Join(dir, "log"))

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "trk.toml")
		cfg := NewConfig(dir, filepath.Join(dir, "log"))
		cfg.Manifest = ManifestConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.ProjectRoot != dir {
			t.Errorf("ProjectRoot = %q, want %q", got.ProjectRoot, dir)
		}
		if got.Manifest.Type != "memory" {
			t.Errorf("Manifest.Type = %q, want %q", got.Manifest.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/trk.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
