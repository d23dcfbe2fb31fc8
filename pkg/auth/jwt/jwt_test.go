package jwt

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/mcplab/mcpclient/pkg/auth"
)

var secret = []byte("test-secret")

func signToken(t *testing.T, claims jwtlib.MapClaims, key []byte) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func authenticate(t *testing.T, a *Authenticator, bearer string) auth.Result {
	t.Helper()
	r := httptest.NewRequest("POST", "/mcp", nil)
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}
	return a.Authenticate(context.Background(), r)
}

func TestValidToken(t *testing.T) {
	a := New(Config{Secret: secret})
	token := signToken(t, jwtlib.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, secret)

	res := authenticate(t, a, token)
	if res.Decision != auth.Yes {
		t.Fatalf("decision = %v, want Yes (err: %v)", res.Decision, res.Err)
	}
	if res.Identity.Subject != "alice" {
		t.Errorf("subject = %q, want alice", res.Identity.Subject)
	}
}

func TestExpiredToken(t *testing.T) {
	a := New(Config{Secret: secret})
	token := signToken(t, jwtlib.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, secret)

	if res := authenticate(t, a, token); res.Decision != auth.No {
		t.Errorf("decision = %v, want No for expired token", res.Decision)
	}
}

func TestWrongSecret(t *testing.T) {
	a := New(Config{Secret: secret})
	token := signToken(t, jwtlib.MapClaims{"sub": "alice"}, []byte("other-secret"))

	if res := authenticate(t, a, token); res.Decision != auth.No {
		t.Errorf("decision = %v, want No for bad signature", res.Decision)
	}
}

func TestIssuerAndAudience(t *testing.T) {
	a := New(Config{Secret: secret, Issuer: "gateway", Audience: "clients"})

	good := signToken(t, jwtlib.MapClaims{
		"sub": "alice", "iss": "gateway", "aud": "clients",
	}, secret)
	if res := authenticate(t, a, good); res.Decision != auth.Yes {
		t.Errorf("decision = %v, want Yes (err: %v)", res.Decision, res.Err)
	}

	badIss := signToken(t, jwtlib.MapClaims{
		"sub": "alice", "iss": "someone-else", "aud": "clients",
	}, secret)
	if res := authenticate(t, a, badIss); res.Decision != auth.No {
		t.Errorf("decision = %v, want No for wrong issuer", res.Decision)
	}
}

func TestMissingSubject(t *testing.T) {
	a := New(Config{Secret: secret})
	token := signToken(t, jwtlib.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, secret)

	if res := authenticate(t, a, token); res.Decision != auth.No {
		t.Errorf("decision = %v, want No when sub is missing", res.Decision)
	}
}

func TestOpaqueTokenAbstains(t *testing.T) {
	a := New(Config{Secret: secret})
	if res := authenticate(t, a, "plain-api-key"); res.Decision != auth.Abstain {
		t.Errorf("decision = %v, want Abstain for non-JWT bearer", res.Decision)
	}
	if res := authenticate(t, a, ""); res.Decision != auth.Abstain {
		t.Errorf("decision = %v, want Abstain without credentials", res.Decision)
	}
}
