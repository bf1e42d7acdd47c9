package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig controls Cross-Origin Resource Sharing policy.
type CORSConfig struct {
	// AllowOrigins lists allowed origins; "*" allows all. Defaults to all.
	AllowOrigins []string
	// AllowMethods lists allowed methods for preflight responses.
	AllowMethods []string
	// AllowHeaders lists allowed request headers for preflight responses.
	AllowHeaders []string
	// ExposeHeaders lists headers exposed to browser scripts.
	ExposeHeaders []string
	// AllowCredentials permits cookies and authorization headers. Ignored
	// for wildcard origins.
	AllowCredentials bool
	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int
	// AllowOriginFunc overrides AllowOrigins with custom validation. It
	// returns the value for the Access-Control-Allow-Origin header and
	// whether the origin is allowed.
	AllowOriginFunc func(origin string) (string, bool)
}

// CORS returns a permissive CORS wrapper allowing all origins. Suitable for
// development only.
func CORS() func(http.Handler) http.Handler {
	return CORSWithConfig(CORSConfig{})
}

// CORSWithConfig returns an http-level CORS wrapper. It sits outside the
// routing layer so that preflight OPTIONS requests are answered before route
// lookup: a preflight for a POST-only path must not turn into a 405.
func CORSWithConfig(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
	}

	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin, ok := resolveOrigin(cfg, origin)
			if !ok {
				if isPreflight(r) {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			if allowOrigin != "*" {
				w.Header().Add("Vary", "Origin")
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			if exposeHeaders != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposeHeaders)
			}

			if isPreflight(r) {
				w.Header().Set("Access-Control-Allow-Methods", allowMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

func resolveOrigin(cfg CORSConfig, origin string) (string, bool) {
	if cfg.AllowOriginFunc != nil {
		return cfg.AllowOriginFunc(origin)
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		return "*", true
	}
	if slices.Contains(cfg.AllowOrigins, origin) {
		return origin, true
	}
	return "", false
}
