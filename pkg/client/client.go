package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcpclient/pkg/observability"
)

const (
	// clientName identifies this client in the MCP initialize handshake.
	clientName = "mcpclient"

	// Version is the client version reported to servers.
	Version = "0.1.0"

	// healthPath is the gateway's well-known health endpoint.
	healthPath = "/api/v1/health"

	// defaultTimeout applies when Config.Timeout is zero.
	defaultTimeout = 30 * time.Second
)

// Config holds the immutable client configuration. It is validated and
// copied by New; changing a Config after that has no effect on the Client.
type Config struct {
	// ServerURL is the gateway base URL, e.g. "https://gateway.example.com".
	// A single trailing slash is trimmed.
	ServerURL string

	// APIKey is the opaque bearer credential sent with every request.
	APIKey string

	// Category optionally scopes the MCP endpoint to a tool category:
	// requests go to {ServerURL}/{Category}/mcp instead of {ServerURL}/mcp.
	Category string

	// VerifyTLS enables standard certificate and hostname verification.
	// It defaults to false to allow self-signed development endpoints;
	// set it for production gateways.
	VerifyTLS bool

	// Timeout bounds each health probe and each HTTP exchange of the
	// streaming transport. Defaults to 30 seconds. A context deadline can
	// tighten it per call.
	Timeout time.Duration
}

// Client calls MCP tools on a configured gateway, opening one session per
// operation. It is safe for concurrent use; operations never share sessions.
type Client struct {
	cfg        Config
	authHeader string // "Bearer " + APIKey, computed once
}

// New validates cfg and returns a Client. No network activity occurs.
func New(cfg Config) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, configError("new", "server URL is required")
	}
	if cfg.APIKey == "" {
		return nil, configError("new", "API key is required")
	}
	cfg.ServerURL = strings.TrimSuffix(cfg.ServerURL, "/")
	u, err := url.Parse(cfg.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, configError("new", "invalid server URL %q", cfg.ServerURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		authHeader: "Bearer " + cfg.APIKey,
	}, nil
}

// Endpoint returns the MCP endpoint URL for the configured routing category.
// It is recomputed per call from the configuration.
func (c *Client) Endpoint() string {
	if c.cfg.Category != "" {
		return c.cfg.ServerURL + "/" + c.cfg.Category + "/mcp"
	}
	return c.cfg.ServerURL + "/mcp"
}

// HealthStatus is the raw outcome of a health probe. The client reports the
// response as-is; interpreting non-200 statuses is the caller's concern.
type HealthStatus struct {
	StatusCode int
	Body       string
}

// OK reports whether the gateway answered with HTTP 200.
func (h *HealthStatus) OK() bool { return h.StatusCode == http.StatusOK }

// HealthCheck sends one authenticated GET to the gateway's health endpoint
// over a short-lived plain HTTP connection and returns the exact status and
// body. There are no retries; connection resources are released before
// returning on every path.
func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	httpClient := c.newHealthClient()
	defer httpClient.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ServerURL+healthPath, nil)
	if err != nil {
		return nil, configError("health_check", "building request: %w", err)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		observability.HealthProbesTotal.WithLabelValues("error").Inc()
		return nil, &Error{Kind: KindTransport, Op: "health_check", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.HealthProbesTotal.WithLabelValues("error").Inc()
		return nil, &Error{Kind: KindTransport, Op: "health_check", Err: fmt.Errorf("reading response body: %w", err)}
	}

	observability.HealthProbesTotal.WithLabelValues(statusClass(resp.StatusCode)).Inc()
	observability.HealthProbeDuration.Observe(time.Since(start).Seconds())
	slog.Debug("health probe completed", "url", req.URL.String(), "status", resp.StatusCode)

	return &HealthStatus{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

// Scenario is a caller-supplied sequence of tool invocations executed within
// one session's lifetime. The session is initialized before the scenario
// runs and closed after it returns, whatever the outcome.
type Scenario[R any] func(ctx context.Context, session *mcp.ClientSession) (R, error)

// Run opens a fresh transport connection and MCP session against the
// configured endpoint, performs the initialize handshake, invokes the
// scenario, and closes the session before returning. Scenario errors
// propagate unchanged; connect failures are reported as transport- or
// protocol-kind errors. The session never outlives the call.
func Run[R any](ctx context.Context, c *Client, fn Scenario[R]) (R, error) {
	return RunWithTransport(ctx, c, c.newStreamTransport(), fn)
}

// RunWithTransport is Run with a caller-provided transport. It exists so
// tests can inject in-memory or instrumented transports; production callers
// use Run.
func RunWithTransport[R any](ctx context.Context, c *Client, transport mcp.Transport, fn Scenario[R]) (R, error) {
	var zero R

	runID := uuid.NewString()
	category := c.cfg.Category
	if category == "" {
		category = "default"
	}

	mc := mcp.NewClient(
		&mcp.Implementation{Name: clientName, Version: Version},
		nil,
	)

	start := time.Now()
	session, err := connectSession(ctx, mc, transport)
	if err != nil {
		observability.SessionsTotal.WithLabelValues(category, "connect_error").Inc()
		return zero, err
	}

	observability.ActiveSessions.Inc()
	slog.Debug("session opened", "run_id", runID, "category", category)

	defer func() {
		if cerr := session.Close(); cerr != nil {
			// The scenario's error is what the caller must observe;
			// a cleanup failure is only logged.
			slog.Warn("closing session", "run_id", runID, "error", cerr)
		}
		observability.ActiveSessions.Dec()
		observability.SessionDuration.WithLabelValues(category).Observe(time.Since(start).Seconds())
		slog.Debug("session closed", "run_id", runID)
	}()

	res, err := fn(ctx, session)
	if err != nil {
		observability.SessionsTotal.WithLabelValues(category, "scenario_error").Inc()
		return zero, err
	}
	observability.SessionsTotal.WithLabelValues(category, "ok").Inc()
	return res, nil
}

// connectSession performs the initialize handshake, bounded by ctx even when
// the transport's connect path does not honor the context itself. On expiry
// the opened connection is closed, which fails the pending handshake
// exchange, and a transport-kind error is returned.
func connectSession(ctx context.Context, mc *mcp.Client, transport mcp.Transport) (*mcp.ClientSession, error) {
	tracked := &trackingTransport{inner: transport}

	type connectResult struct {
		session *mcp.ClientSession
		err     error
	}
	done := make(chan connectResult, 1)
	go func() {
		s, err := mc.Connect(ctx, tracked, nil)
		done <- connectResult{session: s, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, &Error{Kind: classifyConnectError(res.err), Op: "connect", Err: res.err}
		}
		return res.session, nil
	case <-ctx.Done():
		tracked.closeConn()
		// A session that still materializes must not leak its connection.
		go func() {
			if res := <-done; res.err == nil {
				_ = res.session.Close()
			}
		}()
		return nil, &Error{Kind: KindTransport, Op: "connect", Err: ctx.Err()}
	}
}

// ListTools opens a session, lists the tools available at the configured
// endpoint, and returns them in server order.
func (c *Client) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	return Run(ctx, c, func(ctx context.Context, session *mcp.ClientSession) ([]*mcp.Tool, error) {
		res, err := session.ListTools(ctx, nil)
		if err != nil {
			return nil, &Error{Kind: KindProtocol, Op: "list_tools", Err: err}
		}
		names := make([]string, 0, len(res.Tools))
		for _, tool := range res.Tools {
			names = append(names, tool.Name)
		}
		slog.Info("available tools", "count", len(res.Tools), "tools", names)
		return res.Tools, nil
	})
}

// CallTool opens a session and invokes a single tool by name. The returned
// result may carry IsError when the tool itself reports a domain failure;
// inspecting that flag is the caller's responsibility.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return Run(ctx, c, func(ctx context.Context, session *mcp.ClientSession) (*mcp.CallToolResult, error) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
		if err != nil {
			return nil, &Error{Kind: KindProtocol, Op: "call_tool", Err: err}
		}
		return res, nil
	})
}

// TextContent concatenates the text parts of a tool result. Tools whose
// contract is a JSON payload return it as text; callers parse the returned
// string themselves.
func TextContent(res *mcp.CallToolResult) string {
	var b strings.Builder
	for _, content := range res.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// statusClass maps an HTTP status code to its class label ("2xx", "5xx", ...).
func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
