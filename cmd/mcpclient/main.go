// Command mcpclient probes and exercises an MCP gateway from the command
// line. Configuration is layered: built-in defaults, then an optional YAML
// config file, then MCP_* environment variables, then flags.
//
// Modes (exactly one):
//
//	-health            probe the gateway health endpoint
//	-list-tools        list the tools behind the configured endpoint
//	-call NAME         invoke a tool, with optional -args '{"k":"v"}'
//
// Examples:
//
//	mcpclient -server https://gateway.example.com -key $KEY -health
//	mcpclient -category job_management -list-tools
//	mcpclient -category job_management -call controller.jobs_read -args '{"version":"v2","id":42}'
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mcplab/mcpclient/pkg/client"
	"github.com/mcplab/mcpclient/pkg/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("mcpclient failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to the YAML config file")
		serverURL  = flag.String("server", "", "gateway base URL (overrides config)")
		apiKey     = flag.String("key", "", "bearer API key (overrides config)")
		category   = flag.String("category", "", "endpoint routing category (overrides config)")
		verifyTLS  = flag.Bool("verify-tls", false, "verify the gateway's TLS certificate")
		timeout    = flag.Duration("timeout", 0, "request timeout (overrides config)")

		health    = flag.Bool("health", false, "probe the gateway health endpoint")
		listTools = flag.Bool("list-tools", false, "list the tools behind the endpoint")
		call      = flag.String("call", "", "tool name to invoke")
		args      = flag.String("args", "", "tool arguments as a JSON object")
	)
	flag.Parse()

	cfg, err := config.Layered(*configPath)
	if err != nil {
		return err
	}

	// Flags win over file and environment, but only when actually set.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.Server.URL = *serverURL
		case "key":
			cfg.Server.APIKey = *apiKey
		case "category":
			cfg.Server.Category = *category
		case "verify-tls":
			cfg.Server.VerifyTLS = *verifyTLS
		case "timeout":
			cfg.Server.Timeout = *timeout
		}
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	c, err := client.New(cfg.ClientConfig())
	if err != nil {
		return err
	}

	ctx := context.Background()

	switch {
	case *health:
		return runHealth(ctx, c)
	case *listTools:
		return runListTools(ctx, c)
	case *call != "":
		return runCall(ctx, c, *call, *args)
	default:
		return fmt.Errorf("one of -health, -list-tools or -call is required")
	}
}

func runHealth(ctx context.Context, c *client.Client) error {
	st, err := c.HealthCheck(ctx)
	if err != nil {
		return err
	}
	if !st.OK() {
		return fmt.Errorf("gateway unhealthy: status %d: %s", st.StatusCode, st.Body)
	}
	fmt.Println(st.Body)
	return nil
}

func runListTools(ctx context.Context, c *client.Client) error {
	tools, err := c.ListTools(ctx)
	if err != nil {
		return err
	}
	for _, tool := range tools {
		fmt.Printf("%s\t%s\n", tool.Name, tool.Description)
	}
	return nil
}

func runCall(ctx context.Context, c *client.Client, name, rawArgs string) error {
	var toolArgs map[string]any
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
			return fmt.Errorf("parsing -args: %w", err)
		}
	}

	res, err := c.CallTool(ctx, name, toolArgs)
	if err != nil {
		return err
	}
	if res.IsError {
		return fmt.Errorf("tool %s failed: %s", name, client.TextContent(res))
	}
	fmt.Println(client.TextContent(res))
	return nil
}
