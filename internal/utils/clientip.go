package utils

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP derives the real client address of a request.  Behind a
// proxy the first comma-separated token of X-Forwarded-For is the
// original client; otherwise the transport peer address is used with
// its port stripped.  Returns "" when nothing usable is present.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if r.RemoteAddr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
