package server

import (
	"net/http"
	"slices"
	"strings"
)

// SecurityConfig configures the response headers and the request limits of
// the API.
type SecurityConfig struct {
	// EnableCORS adds Access-Control-* headers for the allowed origins.
	EnableCORS bool
	// AllowedOrigins lists the origins granted CORS access. "*" allows any.
	AllowedOrigins []string
	// AllowedMethods is sent as Access-Control-Allow-Methods.
	AllowedMethods []string
	// MinEpsilon is the finest step fraction a request may ask for.
	MinEpsilon float64
	// MaxPoints caps the samples returned by /api/solve.
	MaxPoints int
	// MaxSteps caps the steps of each walk of a request's integration.
	// Histories that never reach AMin, such as phantom dark energy, stop
	// there instead of at the command-line limit.
	MaxSteps int
}

// DefaultSecurityConfig allows read-only cross-origin access and bounds the
// work a single request can trigger.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MinEpsilon:     1e-4,
		MaxPoints:      5000,
		MaxSteps:       200_000,
	}
}

// allowedOrigin returns the value of Access-Control-Allow-Origin for origin,
// or "" when the origin is not allowed.
func (c SecurityConfig) allowedOrigin(origin string) string {
	if slices.Contains(c.AllowedOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(c.AllowedOrigins, origin) {
		return origin
	}
	return ""
}

// SecurityMiddleware sets the security headers on every response, answers
// CORS preflight requests and passes the rest to next.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin := config.allowedOrigin(r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				h.Set("Access-Control-Max-Age", "3600")
				if origin != "*" {
					h.Add("Vary", "Origin")
				}
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}
