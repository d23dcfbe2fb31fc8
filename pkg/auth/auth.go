// Package auth provides bearer-token authentication for the gateway
// simulator. Authenticators vote Yes/No/Abstain and are composed into a
// chain, so a gateway can accept static API keys and signed tokens at the
// same time.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Decision represents the three possible outcomes of authentication.
type Decision int

const (
	// Yes means the credential is valid. The chain stops and the identity
	// is used.
	Yes Decision = iota

	// No means a credential was presented but is invalid. The chain stops
	// and the request is rejected.
	No

	// Abstain means this authenticator cannot handle the credential type.
	// The chain continues to the next authenticator.
	Abstain
)

// Result carries the outcome of an authentication attempt.
type Result struct {
	Decision Decision
	Identity *Identity // populated only when Decision == Yes
	Err      error     // populated only when Decision == No
}

// Identity represents an authenticated caller.
type Identity struct {
	// Subject is the unique caller identifier (required, non-empty).
	Subject string
}

// Authenticator examines request credentials and returns a three-outcome vote.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Result
}

// ErrUnauthenticated is returned when a presented credential is invalid.
var ErrUnauthenticated = errors.New("authentication required")

// Chain evaluates authenticators in order, stopping on the first Yes or No.
// If every authenticator abstains, the request is rejected.
type Chain struct {
	Authenticators []Authenticator
}

// Authenticate runs the chain.
func (c *Chain) Authenticate(ctx context.Context, r *http.Request) Result {
	for _, a := range c.Authenticators {
		res := a.Authenticate(ctx, r)
		if res.Decision != Abstain {
			return res
		}
	}
	return Result{Decision: No, Err: ErrUnauthenticated}
}

// BearerToken extracts the token from an Authorization: Bearer header.
// The second return is false when no bearer credential is present.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}
