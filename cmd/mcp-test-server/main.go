// Command mcp-test-server runs the reference MCP gateway used by the
// integration tests and for local development. It exposes the utility tools
// on /mcp, the controller job tools on /job_management/mcp, a health
// endpoint, and Prometheus metrics.
//
// Configuration via environment variables:
//
//	PORT                   - Listen port (default: 8080)
//	MCP_GATEWAY_API_KEY    - Accepted bearer API key (default: "test-key")
//	MCP_GATEWAY_JWT_SECRET - HMAC secret for JWT bearer tokens (optional)
//	MCP_GATEWAY_JWT_ISSUER - Required JWT issuer when set (optional)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcplab/mcpclient/pkg/gateway"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	port := envOrDefault("PORT", "8080")
	apiKey := envOrDefault("MCP_GATEWAY_API_KEY", "test-key")

	handler, err := gateway.New(gateway.Config{
		APIKeys:   []string{apiKey},
		JWTSecret: os.Getenv("MCP_GATEWAY_JWT_SECRET"),
		JWTIssuer: os.Getenv("MCP_GATEWAY_JWT_ISSUER"),
	})
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gateway starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
