package security

import (
	"fmt"
	"net/http"
)

// HeadersConfig holds the response headers for the two kinds of response
// the server produces: HTML pages and everything else (JSON, health, metrics).
type HeadersConfig struct {
	// PageCSP applies to the paths listed in Pages.
	PageCSP string
	// APICSP applies to every other response. Nothing served there is
	// meant to be rendered or framed.
	APICSP string
	Pages  []string

	// NoStore marks responses as uncacheable. Static assets override it.
	NoStore bool

	HSTSMaxAge        int
	ReferrerPolicy    string
	PermissionsPolicy string
}

// DefaultHeadersConfig matches the dashboard at "/": one stylesheet, no
// scripts, no forms.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		PageCSP: "default-src 'none'; " +
			"style-src 'self'; " +
			"img-src 'self' data:; " +
			"frame-ancestors 'none'; " +
			"base-uri 'none'; " +
			"form-action 'none'",
		APICSP: "default-src 'none'; frame-ancestors 'none'",
		Pages:  []string{"/"},

		NoStore: true,

		HSTSMaxAge:        31536000, // 1 year
		ReferrerPolicy:    "no-referrer",
		PermissionsPolicy: "geolocation=(), microphone=(), camera=(), payment=()",
	}
}

// HeadersMiddleware applies security headers to responses
type HeadersMiddleware struct {
	config HeadersConfig
	pages  map[string]bool
}

func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	pages := make(map[string]bool, len(config.Pages))
	for _, p := range config.Pages {
		pages[p] = true
	}
	return &HeadersMiddleware{config: config, pages: pages}
}

func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.applyHeaders(w, r)
		next.ServeHTTP(w, r)
	})
}

func (h *HeadersMiddleware) applyHeaders(w http.ResponseWriter, r *http.Request) {
	headers := w.Header()

	headers.Set("X-Content-Type-Options", "nosniff")
	headers.Set("X-Frame-Options", "DENY")
	headers.Set("Referrer-Policy", h.config.ReferrerPolicy)
	headers.Set("Permissions-Policy", h.config.PermissionsPolicy)
	headers.Set("Cross-Origin-Opener-Policy", "same-origin")

	if h.pages[r.URL.Path] {
		headers.Set("Content-Security-Policy", h.config.PageCSP)
	} else {
		headers.Set("Content-Security-Policy", h.config.APICSP)
	}
	if h.config.NoStore {
		headers.Set("Cache-Control", "no-store")
	}

	if r.TLS != nil && h.config.HSTSMaxAge > 0 {
		headers.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", h.config.HSTSMaxAge))
	}
}

// StaticAssetMiddleware adds caching headers for static assets
func StaticAssetMiddleware(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}
