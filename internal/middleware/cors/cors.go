// Package cors answers preflight requests and sets CORS headers for allowed origins.
package cors

import (
	"net/http"
	"strconv"
	"strings"
)

// Config holds CORS configuration
type Config struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAgeSeconds    int
}

// DefaultConfig returns the settings used by the web client
func DefaultConfig(origins []string) Config {
	return Config{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAgeSeconds:    3600,
	}
}

// Middleware applies CORS headers
type Middleware struct {
	config   Config
	allowAll bool
	origins  map[string]bool
}

// New creates a CORS middleware. An origin of "*" allows any origin.
func New(config Config) *Middleware {
	m := &Middleware{config: config, origins: make(map[string]bool)}
	for _, o := range config.AllowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			m.allowAll = true
			continue
		}
		m.origins[o] = true
	}
	return m
}

// IsAllowedOrigin checks if the provided origin is in the allowed list
func (m *Middleware) IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	return m.allowAll || m.origins[origin]
}

// Middleware returns the HTTP middleware function
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		h := w.Header()
		h.Add("Vary", "Origin")

		if m.IsAllowedOrigin(origin) {
			h.Set("Access-Control-Allow-Origin", origin)
			if m.config.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if len(m.config.ExposedHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(m.config.ExposedHeaders, ", "))
			}
		}

		// Handle preflight requests
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if !m.IsAllowedOrigin(origin) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h.Set("Access-Control-Allow-Methods", strings.Join(m.config.AllowedMethods, ", "))
			h.Set("Access-Control-Allow-Headers", strings.Join(m.config.AllowedHeaders, ", "))
			if m.config.MaxAgeSeconds > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(m.config.MaxAgeSeconds))
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
