// Package jwt provides a JWT authenticator that validates HMAC-signed
// bearer tokens against a shared secret, with optional issuer and audience
// checks.
package jwt

import (
	"context"
	"fmt"
	"net/http"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/mcplab/mcpclient/pkg/auth"
)

// Config holds the JWT authenticator configuration.
type Config struct {
	// Secret is the HMAC signing secret (required).
	Secret []byte

	// Issuer is the expected iss claim. If empty, the issuer is not checked.
	Issuer string

	// Audience is the expected aud claim. If empty, the audience is not
	// checked.
	Audience string

	// SubjectClaim is the claim used as the identity subject. Default: "sub".
	SubjectClaim string
}

// Authenticator validates HMAC-signed JWT bearer tokens.
type Authenticator struct {
	config Config
}

// New creates a JWT authenticator with the given configuration.
func New(cfg Config) *Authenticator {
	if cfg.SubjectClaim == "" {
		cfg.SubjectClaim = "sub"
	}
	return &Authenticator{config: cfg}
}

// Authenticate extracts a bearer token, validates its signature and standard
// claims, and returns an identity on success.
//
// Decision outcomes:
//   - Abstain: no bearer credential, or the credential is not JWT-shaped
//   - No: a JWT was presented but is invalid (expired, bad signature, ...)
//   - Yes: valid JWT with a populated subject
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.Result {
	tokenStr, ok := auth.BearerToken(r)
	if !ok || tokenStr == "" {
		return auth.Result{Decision: auth.Abstain}
	}

	// A JWT has exactly three dot-separated segments; anything else is an
	// opaque key for another authenticator.
	if !looksLikeJWT(tokenStr) {
		return auth.Result{Decision: auth.Abstain}
	}

	token, err := jwtlib.Parse(tokenStr, func(token *jwtlib.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.config.Secret, nil
	}, a.parserOptions()...)
	if err != nil {
		return auth.Result{
			Decision: auth.No,
			Err:      fmt.Errorf("invalid JWT: %w", err),
		}
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok || !token.Valid {
		return auth.Result{Decision: auth.No, Err: fmt.Errorf("invalid JWT claims")}
	}

	subject, _ := claims[a.config.SubjectClaim].(string)
	if subject == "" {
		return auth.Result{
			Decision: auth.No,
			Err:      fmt.Errorf("JWT missing %q claim", a.config.SubjectClaim),
		}
	}

	return auth.Result{
		Decision: auth.Yes,
		Identity: &auth.Identity{Subject: subject},
	}
}

// parserOptions builds JWT parser options based on the configuration.
func (a *Authenticator) parserOptions() []jwtlib.ParserOption {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if a.config.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(a.config.Issuer))
	}
	if a.config.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(a.config.Audience))
	}
	return opts
}

// looksLikeJWT reports whether the token has the three-segment JWT shape.
func looksLikeJWT(token string) bool {
	dots := 0
	for _, c := range token {
		if c == '.' {
			dots++
		}
	}
	return dots == 2
}
