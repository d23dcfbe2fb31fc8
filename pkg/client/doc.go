// Package client provides a thin, session-per-call client for MCP
// (Model Context Protocol) gateways reached over streamable HTTP.
//
// A Client is configured once with a server URL, a bearer credential, an
// optional routing category, and a TLS verification switch. Each operation
// opens its own transport connection and protocol session and releases both
// before returning, on every exit path. Sessions are never shared or pooled,
// so concurrent operations on one Client are independent of each other.
//
// The package wraps the official MCP Go SDK
// (github.com/modelcontextprotocol/go-sdk); the transport, session framing,
// and initialize handshake are the SDK's. What the client adds is endpoint
// construction per routing category, bearer-header injection that survives
// redirects, a configurable TLS policy for self-signed endpoints, a plain
// HTTP health probe, and guaranteed session cleanup around caller-supplied
// scenarios.
//
// The client never retries. Polling a long-running remote job is a scenario
// concern, written as an explicit attempt-capped loop by the caller.
package client
