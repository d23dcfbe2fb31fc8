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
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("default timeout = %s, want 30s", cfg.Server.Timeout)
	}
	if cfg.Server.VerifyTLS {
		t.Error("VerifyTLS should default to false")
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  url: https://gateway.example.com
  api_key: file-key
  category: job_management
  verify_tls: true
  timeout: 45s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.URL != "https://gateway.example.com" {
		t.Errorf("url = %q", cfg.Server.URL)
	}
	if cfg.Server.Category != "job_management" {
		t.Errorf("category = %q", cfg.Server.Category)
	}
	if !cfg.Server.VerifyTLS {
		t.Error("verify_tls not applied")
	}
	if cfg.Server.Timeout != 45*time.Second {
		t.Errorf("timeout = %s, want 45s", cfg.Server.Timeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  url: https://from-file.example.com
  api_key: file-key
`)

	t.Setenv("MCP_SERVER_URL", "https://from-env.example.com")
	t.Setenv("MCP_API_KEY", "env-key")
	t.Setenv("MCP_CATEGORY", "inventory")
	t.Setenv("MCP_VERIFY_TLS", "true")
	t.Setenv("MCP_TIMEOUT", "10s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.URL != "https://from-env.example.com" {
		t.Errorf("url = %q, env should win over file", cfg.Server.URL)
	}
	if cfg.Server.APIKey != "env-key" {
		t.Errorf("api_key = %q", cfg.Server.APIKey)
	}
	if cfg.Server.Category != "inventory" {
		t.Errorf("category = %q", cfg.Server.Category)
	}
	if !cfg.Server.VerifyTLS {
		t.Error("verify_tls env override not applied")
	}
	if cfg.Server.Timeout != 10*time.Second {
		t.Errorf("timeout = %s, want 10s", cfg.Server.Timeout)
	}
}

func TestAPIKeyFileReference(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeFile(t, dir, "key", "  secret-from-file\n")
	cfgPath := writeFile(t, dir, "config.yaml", `
server:
  url: https://gateway.example.com
  api_key_file: `+keyPath+`
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.APIKey != "secret-from-file" {
		t.Errorf("api_key = %q, want trimmed file content", cfg.Server.APIKey)
	}
}

func TestExplicitKeyWinsOverKeyFile(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeFile(t, dir, "key", "from-file")
	cfgPath := writeFile(t, dir, "config.yaml", `
server:
  url: https://gateway.example.com
  api_key: explicit
  api_key_file: `+keyPath+`
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.APIKey != "explicit" {
		t.Errorf("api_key = %q, explicit value should win", cfg.Server.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Server.URL = "" },
			wantErr: "server.url is required",
		},
		{
			name:    "bad url",
			mutate:  func(c *Config) { c.Server.URL = "not a url" },
			wantErr: "not a valid base URL",
		},
		{
			name: "missing credential",
			mutate: func(c *Config) {
				c.Server.APIKey = ""
				c.Server.APIKeyFile = ""
			},
			wantErr: "api_key",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Server.Timeout = -time.Second },
			wantErr: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Server.URL = "https://gateway.example.com"
			cfg.Server.APIKey = "key"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected validation error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped fs.ErrNotExist", err)
	}
}

func TestClientConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Server.URL = "https://h"
	cfg.Server.APIKey = "k"
	cfg.Server.Category = "job_management"
	cfg.Server.VerifyTLS = true

	cc := cfg.ClientConfig()
	if cc.ServerURL != "https://h" || cc.APIKey != "k" || cc.Category != "job_management" || !cc.VerifyTLS {
		t.Errorf("unexpected client config: %+v", cc)
	}
	if cc.Timeout != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", cc.Timeout)
	}
}
