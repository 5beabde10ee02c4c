package config

import (
	"strings"
	"testing"

	"nathanbeddoewebdev/ptrgen/internal/config"
)

func TestGet_PTRDomain_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "get", "ptr-domain")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_PTRDomain_Set(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{PTRDomain: "example.net"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get", "PTR-Domain")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if strings.TrimSpace(stdout) != "example.net" {
		t.Errorf("expected 'example.net', got: %s", stdout)
	}
}

func TestGet_All(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{OutDir: "/var/named"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, _ := execConfig(t, "get")

	if !strings.Contains(stdout, "out-dir: /var/named") {
		t.Errorf("expected out-dir value, got: %s", stdout)
	}
	if !strings.Contains(stdout, "ptr-domain: (not set)") {
		t.Errorf("expected unset ptr-domain, got: %s", stdout)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "bogus-key")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}

func TestList_EnvironmentOverride(t *testing.T) {
	path := setupTestConfig(t)
	t.Setenv(config.EnvPTRDomain, "env.example.net")
	t.Setenv(config.EnvOutDir, "")
	t.Setenv(config.EnvNetBoxToken, "")

	cfg := &config.Config{PTRDomain: "stored.example.net", OutDir: "/srv/zones"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "list")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	for _, want := range []string{"env.example.net", "$PTR_DOMAIN", "/srv/zones"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "stored.example.net") {
		t.Errorf("stored value should be shadowed by the environment:\n%s", stdout)
	}
}
