package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.Port != 8080 || cfg.App.Sitemap != "default" || cfg.App.Refresh != 120*time.Second {
		t.Fatalf("unexpected defaults %#v", cfg.App)
	}
	if cfg.App.TouchWait != 250*time.Millisecond {
		t.Fatalf("expected 250ms touch wait, got %s", cfg.App.TouchWait)
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected validation to require a host or sample")
	}
}

func TestLoadArgsPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.toml")
	doc := `
[openhab]
host = "file-host"
port = 9090
sitemap = "file-map"
refresh = "30s"

[panel]
touch_wait = "100ms"
width = 100

[logging]
trace = true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadArgs(
		[]string{"-config", path, "-sitemap", "flag-map"},
		[]string{"PANEL_PORT=7070", "PANEL_SITEMAP=env-map"},
	)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.Host != "file-host" {
		t.Fatalf("expected host from file, got %q", cfg.App.Host)
	}
	if cfg.App.Port != 7070 {
		t.Fatalf("expected env to override file port, got %d", cfg.App.Port)
	}
	if cfg.App.Sitemap != "flag-map" {
		t.Fatalf("expected flag to override env sitemap, got %q", cfg.App.Sitemap)
	}
	if cfg.App.Refresh != 30*time.Second || cfg.App.TouchWait != 100*time.Millisecond {
		t.Fatalf("expected durations from file, got %s %s", cfg.App.Refresh, cfg.App.TouchWait)
	}
	if cfg.App.Width != 100 || !cfg.Logging.Trace {
		t.Fatalf("expected width and trace from file, got %d %v", cfg.App.Width, cfg.Logging.Trace)
	}
	if cfg.File != path || cfg.Flags["config"] != path {
		t.Fatalf("expected config path recorded, got %q", cfg.File)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadArgsConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.toml")
	if err := os.WriteFile(path, []byte("[openhab]\nsample = \"demo.yaml\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadArgs([]string{"--dump"}, []string{"PANEL_CONFIG=" + path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.Sample != "demo.yaml" || !cfg.App.Dump {
		t.Fatalf("expected sample from env config and dump flag, got %#v", cfg.App)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected sample mode to validate without a host, got %v", err)
	}
}

func TestLoadArgsRejectsBadInput(t *testing.T) {
	if _, err := LoadArgs([]string{"-width", "-1"}, nil); err == nil {
		t.Fatalf("expected negative width to fail")
	}
	if _, err := LoadArgs([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, nil); err == nil {
		t.Fatalf("expected missing config file to fail")
	}
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[openhab]\nrefresh = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadArgs([]string{"-config=" + path}, nil); err == nil {
		t.Fatalf("expected bad duration to fail")
	}
}

func TestValidateRanges(t *testing.T) {
	cfg, err := LoadArgs([]string{"-host", "oh", "-port", "70000"}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected port range error")
	}
	cfg.App.Port = 8080
	cfg.App.TouchWait = 0
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected touch-wait error")
	}
}

func TestEnvInvalidValuesFallBack(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"PANEL_PORT=abc", "PANEL_TRACE=maybe", "PANEL_REFRESH=later"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.Port != 8080 || cfg.Logging.Trace || cfg.App.Refresh != 120*time.Second {
		t.Fatalf("expected fallbacks for invalid env values, got %#v", cfg)
	}
}
