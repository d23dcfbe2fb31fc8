package auth

import (
	"log/slog"
	"net/http"
)

// Middleware wraps an HTTP handler with chain authentication. Paths on the
// bypass list (health, metrics) are served without credentials.
func Middleware(chain *Chain, bypassPaths []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassPaths))
	for _, p := range bypassPaths {
		bypass[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			result := chain.Authenticate(r.Context(), r)
			if result.Decision != Yes || result.Identity == nil || result.Identity.Subject == "" {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", result.Err,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"type":"unauthorized","message":"authentication required"}}`))
				return
			}

			slog.Debug("authentication succeeded",
				"subject", result.Identity.Subject,
				"path", r.URL.Path,
			)
			next.ServeHTTP(w, r)
		})
	}
}
