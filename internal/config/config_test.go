package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected zero config (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptrgen", "config.json")

	want := &Config{
		Provider:              "netbox",
		NetBoxURL:             "https://netbox.example.net/api",
		PTRDomain:             "example.net",
		OutDir:                "/var/named/ptr",
		ReloadCmd:             "rndc reload",
		IgnoreTLSVerification: true,
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{PTRDomain: "example.net"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	first := &Config{OutDir: "/tmp/a"}
	if err := first.SaveTo(path); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := &Config{OutDir: "/tmp/b"}
	if err := second.SaveTo(path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.OutDir != "/tmp/b" {
		t.Errorf("expected OutDir %q, got %q", "/tmp/b", got.OutDir)
	}
}
