package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Kind categorizes the failures the client itself can detect. Errors raised
// by caller-supplied scenarios are never wrapped; they pass through Run
// unchanged.
type Kind string

const (
	// KindConfiguration marks invalid or missing configuration, detected
	// before any network activity.
	KindConfiguration Kind = "configuration"

	// KindTransport marks connection-level failures: refused connections,
	// DNS errors, TLS handshake failures, timeouts.
	KindTransport Kind = "transport"

	// KindProtocol marks MCP-level failures: the initialize handshake was
	// rejected, or an operation was refused by the session layer.
	KindProtocol Kind = "protocol"
)

// Error is the structured error type returned by the client.
type Error struct {
	Kind Kind
	Op   string // failing operation, e.g. "health_check", "connect"
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is (or wraps) a client *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// configError builds a configuration-kind error.
func configError(op, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Err: fmt.Errorf(format, args...)}
}

// classifyConnectError decides whether a session-connect failure happened at
// the transport level (dial, DNS, TLS, timeout) or at the protocol level
// (handshake rejected, malformed initialize response). The SDK surfaces both
// through the same error return, so classification is structural.
func classifyConnectError(err error) Kind {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransport
	}
	return KindProtocol
}
