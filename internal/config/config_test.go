package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// isolate points HOME at an empty directory so a developer's config file does not leak in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultClientConfig()
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("YOGA_SERVER", "http://studio.example:9000/")
	t.Setenv("YOGA_LOG_LEVEL", "debug")
	t.Setenv("YOGA_TIMEOUT", "5s")

	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "http://studio.example:9000" {
		t.Errorf("Server = %q, want trailing slash trimmed", cfg.Server)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
}

func TestLoad_ConfigFileThenFlags(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".yoga")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := "server: http://from-file:8080\noutput: yaml\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	flags := pflag.NewFlagSet("yoga", pflag.ContinueOnError)
	flags.String(KeyServer, "http://localhost:8080", "")
	flags.String(KeyOutput, "table", "")
	if err := flags.Parse([]string{"--output", "json"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "http://from-file:8080" {
		t.Errorf("Server = %q, want value from config file", cfg.Server)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want flag value json", cfg.Output)
	}
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	isolate(t)
	if _, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr bool
	}{
		{"defaults", func(*ClientConfig) {}, false},
		{"empty server", func(c *ClientConfig) { c.Server = "" }, true},
		{"not http", func(c *ClientConfig) { c.Server = "ftp://studio" }, true},
		{"bad output", func(c *ClientConfig) { c.Output = "xml" }, true},
		{"zero timeout", func(c *ClientConfig) { c.Timeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultClientConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveDBPath(t *testing.T) {
	home := isolate(t)

	cfg := DefaultClientConfig()
	got, err := cfg.ResolveDBPath()
	if err != nil {
		t.Fatalf("ResolveDBPath: %v", err)
	}
	if want := filepath.Join(home, ".yoga", "yoga.db"); got != want {
		t.Errorf("ResolveDBPath() = %q, want %q", got, want)
	}

	cfg.DBPath = ":memory:"
	if got, _ := cfg.ResolveDBPath(); got != ":memory:" {
		t.Errorf("explicit DBPath not honored, got %q", got)
	}
}
