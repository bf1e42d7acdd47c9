// Package clientip extracts the originating client IP from a request,
// honoring the common proxy headers before falling back to RemoteAddr.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP address. Precedence: X-Forwarded-For
// (first valid entry), X-Real-IP, then the connection's remote address.
func FromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			ip := strings.TrimSpace(part)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
		if net.ParseIP(xr) != nil {
			return xr
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
