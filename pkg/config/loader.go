package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources and validates it.
// Callers that apply further overrides of their own (the CLI's flags) use
// Layered instead and validate once composition is complete.
func Load(configPath string) (*Config, error) {
	cfg, err := Layered(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Layered performs the defaults → file → environment → file-reference
// layering without validation.
func Layered(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. MCP_CLIENT_CONFIG environment variable
// 3. ./mcpclient.yaml in the current directory
// 4. /etc/mcpclient/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("MCP_CLIENT_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"mcpclient.yaml",
		"/etc/mcpclient/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// envOverrides maps environment variables onto config fields. VerifyTLS is
// a string so "unset" is distinguishable from "false".
type envOverrides struct {
	URL       string        `env:"MCP_SERVER_URL"`
	APIKey    string        `env:"MCP_API_KEY"`
	Category  string        `env:"MCP_CATEGORY"`
	VerifyTLS string        `env:"MCP_VERIFY_TLS"`
	Timeout   time.Duration `env:"MCP_TIMEOUT"`
}

// applyEnvOverrides layers MCP_* environment variables over the config.
func applyEnvOverrides(cfg *Config) {
	var o envOverrides
	// All fields are optional; envdecode only errors when nothing is set.
	_ = envdecode.Decode(&o)

	if o.URL != "" {
		cfg.Server.URL = o.URL
	}
	if o.APIKey != "" {
		cfg.Server.APIKey = o.APIKey
	}
	if o.Category != "" {
		cfg.Server.Category = o.Category
	}
	if o.VerifyTLS != "" {
		if v, err := strconv.ParseBool(o.VerifyTLS); err == nil {
			cfg.Server.VerifyTLS = v
		}
	}
	if o.Timeout > 0 {
		cfg.Server.Timeout = o.Timeout
	}
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields when those are still empty.
func resolveFileReferences(cfg *Config) error {
	if cfg.Server.APIKeyFile != "" && cfg.Server.APIKey == "" {
		val, err := readSecretFile(cfg.Server.APIKeyFile)
		if err != nil {
			return fmt.Errorf("server.api_key_file: %w", err)
		}
		cfg.Server.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding
// whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
