package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Features.Preset != PresetFull || cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv("LOGHL_TEST_ADDR", "0.0.0.0:9999")
	dir := t.TempDir()
	path := writeFile(t, dir, "loghl.yaml", `
log_level: debug
data_dir: ${LOGHL_TEST_DATA:-/tmp/loghl}
features:
  preset: minimal
  navigation: true
profile:
  timeout: 3s
server:
  addr: ${LOGHL_TEST_ADDR}
  max_body: 1MiB
defaults:
  extras: [Carol, "Dave Smith"]
  compact: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.DataDir != "/tmp/loghl" {
		t.Errorf("LogLevel/DataDir = %q/%q", cfg.LogLevel, cfg.DataDir)
	}
	if cfg.Features.Preset != PresetMinimal || cfg.Features.Navigation == nil || !*cfg.Features.Navigation {
		t.Errorf("Features = %+v", cfg.Features)
	}
	if cfg.Features.HideFilter != nil {
		t.Errorf("HideFilter override should be unset")
	}
	if cfg.Profile.Timeout != 3*time.Second || cfg.Profile.Burst != 1 {
		t.Errorf("Profile = %+v", cfg.Profile)
	}
	if cfg.Server.Addr != "0.0.0.0:9999" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if n, err := cfg.Server.MaxBodyBytes(); err != nil || n != 1<<20 {
		t.Errorf("MaxBodyBytes = %d, %v", n, err)
	}
	if len(cfg.Defaults.Extras) != 2 || !cfg.Defaults.Compact {
		t.Errorf("Defaults = %+v", cfg.Defaults)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "LOGHL_TEST_DOTENV_LEVEL=warn\n")
	path := writeFile(t, dir, "loghl.yaml", "log_level: ${LOGHL_TEST_DOTENV_LEVEL}\n")
	t.Cleanup(func() { os.Unsetenv("LOGHL_TEST_DOTENV_LEVEL") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want warn from .env", cfg.LogLevel)
	}
}

func TestLoadUnresolvedVariable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "loghl.yaml", "data_dir: ${LOGHL_TEST_SURELY_UNSET}\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "LOGHL_TEST_SURELY_UNSET") {
		t.Errorf("Load error = %v; want unresolved variable", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load(missing) returned nil error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.Features.Preset = "everything"
	cfg.Profile.BaseURL = "ftp://example.com"
	cfg.Profile.Burst = 0
	cfg.Server.MaxBody = "lots"

	err := Validate(cfg)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate error = %v; want ErrInvalid", err)
	}
	for _, want := range []string{"log_level", "features.preset", "profile.base_url", "profile.burst", "server.max_body"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}

	cfg = Defaults()
	cfg.Profile.Enabled = false
	cfg.Profile.BaseURL = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("disabled profile still validated: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("explicit.yaml"); got != "explicit.yaml" {
		t.Errorf("ResolvePath(explicit) = %q", got)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if err := os.MkdirAll(filepath.Join(xdg, "loghl"), 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeFile(t, filepath.Join(xdg, "loghl"), "loghl.yaml", "log_level: info\n")
	if got := ResolvePath(""); got != want {
		t.Errorf("ResolvePath = %q; want %q", got, want)
	}
}
