// Package apikey provides an API key authenticator that validates bearer
// tokens against a static key store using SHA-256 hashing and constant-time
// comparison.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/mcplab/mcpclient/pkg/auth"
)

// Entry is the configuration format for a single API key.
type Entry struct {
	Key     string
	Subject string
}

// keyEntry maps a key hash to an identity. Plaintext keys are not retained.
type keyEntry struct {
	hash    [32]byte
	subject string
}

// Authenticator validates bearer tokens against a static key store.
type Authenticator struct {
	keys []keyEntry
}

// New creates an API key authenticator. Keys are hashed immediately.
func New(entries []Entry) *Authenticator {
	a := &Authenticator{}
	for _, e := range entries {
		a.keys = append(a.keys, keyEntry{
			hash:    sha256.Sum256([]byte(e.Key)),
			subject: e.Subject,
		})
	}
	return a
}

// Authenticate extracts the bearer token and compares its hash against the
// stored hashes. Returns Abstain when no bearer credential is present so a
// later authenticator in the chain can handle other schemes.
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.Result {
	token, ok := auth.BearerToken(r)
	if !ok {
		return auth.Result{Decision: auth.Abstain}
	}
	if token == "" {
		return auth.Result{Decision: auth.No, Err: auth.ErrUnauthenticated}
	}

	tokenHash := sha256.Sum256([]byte(token))
	for _, entry := range a.keys {
		if subtle.ConstantTimeCompare(tokenHash[:], entry.hash[:]) == 1 {
			return auth.Result{
				Decision: auth.Yes,
				Identity: &auth.Identity{Subject: entry.subject},
			}
		}
	}

	// Bearer token present but unknown. Abstain rather than reject so a
	// JWT authenticator later in the chain can still accept signed tokens.
	return auth.Result{Decision: auth.Abstain}
}
