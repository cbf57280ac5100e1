package pkg

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type clientIPKey struct{}

// WithClientIP returns r carrying ip as the resolved client address.
func WithClientIP(r *http.Request, ip string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), clientIPKey{}, ip))
}

// ReadUserIP returns the client IP resolved by the ClientIP middleware. Without it,
// only the peer address is used, proxy headers are never trusted here.
func ReadUserIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return RemoteIP(r)
}

// RemoteIP is the host part of the peer address.
func RemoteIP(r *http.Request) string {
	return stripPort(r.RemoteAddr)
}

// ProxiedIP prefers the address announced by a reverse proxy. Only call it when
// the peer is known to be that proxy.
func ProxiedIP(r *http.Request) string {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// first entry is the original client
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			ipAddr = strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	if ipAddr == "" {
		return RemoteIP(r)
	}
	return stripPort(ipAddr)
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
