// Package config provides layered configuration for the mcpclient CLI and
// the integration harness.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (MCP_* prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"time"

	"github.com/mcplab/mcpclient/pkg/client"
)

// Config holds all configuration for the mcpclient tooling.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig describes the MCP gateway the client talks to.
type ServerConfig struct {
	// URL is the gateway base URL (required).
	URL string `yaml:"url"`

	// APIKey is the bearer credential. Required unless APIKeyFile is set.
	APIKey string `yaml:"api_key"`

	// APIKeyFile is a _file variant for api_key: the file's trimmed
	// content becomes the key.
	APIKeyFile string `yaml:"api_key_file"`

	// Category optionally scopes requests to {url}/{category}/mcp.
	Category string `yaml:"category"`

	// VerifyTLS enables certificate and hostname verification.
	// Default: false, for self-signed development gateways.
	VerifyTLS bool `yaml:"verify_tls"`

	// Timeout bounds individual requests. Default: 30s.
	Timeout time.Duration `yaml:"timeout"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// ClientConfig converts the server section into a client.Config.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		ServerURL: c.Server.URL,
		APIKey:    c.Server.APIKey,
		Category:  c.Server.Category,
		VerifyTLS: c.Server.VerifyTLS,
		Timeout:   c.Server.Timeout,
	}
}
