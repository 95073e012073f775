// Package middleware provides the HTTP middleware chain of the fintrack API:
// request IDs, access logging, panic recovery, security headers, CORS,
// body limits and bearer authentication.
package middleware

import (
	"net/http"
)

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS in dev environments.
	IsDevelopment bool
}

// Security returns a middleware that applies security headers to all responses.
// The API never serves HTML, so the content policy denies everything.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			// "0" disables the legacy XSS auditor.
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")

			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			// Financial data and tokens must not end up in shared caches.
			h.Set("Cache-Control", "no-store")
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

const payloadTooLargeBody = `{"error":"Request body too large","code":"PAYLOAD_TOO_LARGE"}`

// MaxBodySize returns a middleware that limits request body size.
// Declared oversize bodies are rejected up front; others are cut off by
// http.MaxBytesReader and surface as a decode error in the handler.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				writeJSONError(w, http.StatusRequestEntityTooLarge, payloadTooLargeBody)
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)
		})
	}
}
