// Package gateway implements a reference MCP gateway that simulates an
// automation platform controller. It serves category-scoped streamable HTTP
// MCP endpoints behind bearer authentication, plus a JSON health endpoint.
//
// The gateway backs the integration test suite and the mcp-test-server
// command. Its job state is in-memory and deliberately deterministic: a
// launched job advances from pending through running to successful as it is
// polled, so polling scenarios terminate quickly.
package gateway

import (
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcpclient/pkg/auth"
	"github.com/mcplab/mcpclient/pkg/auth/apikey"
	"github.com/mcplab/mcpclient/pkg/auth/jwt"
)

const (
	serverName    = "mcp-gateway"
	serverVersion = "0.1.0"

	// CategoryJobManagement scopes the controller job tools; clients reach
	// them at /{category}/mcp.
	CategoryJobManagement = "job_management"

	// HealthPath is the gateway's unauthenticated JSON health endpoint.
	HealthPath = "/api/v1/health"
)

// Config holds the gateway configuration.
type Config struct {
	// APIKeys lists accepted static bearer credentials.
	APIKeys []string

	// JWTSecret additionally accepts HMAC-signed JWT bearer tokens when
	// non-empty.
	JWTSecret string

	// JWTIssuer is enforced on JWT tokens when set.
	JWTIssuer string
}

// New builds the gateway handler: the default MCP endpoint with utility
// tools, the job_management category endpoint, and the health endpoint, all
// behind bearer authentication except health.
func New(cfg Config) (http.Handler, error) {
	if len(cfg.APIKeys) == 0 && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("at least one API key or a JWT secret is required")
	}

	store := newJobStore()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, handleHealth)

	utility := newUtilityServer()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return utility
	}, nil))

	jobs := newJobManagementServer(store)
	mux.Handle("/"+CategoryJobManagement+"/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return jobs
	}, nil))

	chain := &auth.Chain{}
	if len(cfg.APIKeys) > 0 {
		entries := make([]apikey.Entry, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			entries = append(entries, apikey.Entry{Key: k, Subject: "api-key"})
		}
		chain.Authenticators = append(chain.Authenticators, apikey.New(entries))
	}
	if cfg.JWTSecret != "" {
		chain.Authenticators = append(chain.Authenticators, jwt.New(jwt.Config{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.JWTIssuer,
		}))
	}

	return auth.Middleware(chain, []string{HealthPath})(mux), nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
