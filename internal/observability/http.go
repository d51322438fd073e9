package observability

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderUserID    = "X-User-Id"
)

// RequestIDFromRequest returns the caller supplied request id, if any.
func RequestIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderRequestID))
}

// ClaimedUserID parses the X-User-Id header. The value is not verified.
func ClaimedUserID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(r.Header.Get(HeaderUserID)))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ClientIP prefers the first valid X-Forwarded-For hop over the socket peer.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
