package middleware

import (
	"net/http"

	"github.com/2beens/newsroom/pkg"
)

// ClientIP resolves the client address once per request. X-Real-Ip and
// X-Forwarded-For are honored only when the service runs behind a reverse proxy,
// otherwise anyone could pick their own rate limit key.
func ClientIP(behindProxy bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := pkg.RemoteIP(r)
			if behindProxy {
				ip = pkg.ProxiedIP(r)
			}
			next.ServeHTTP(w, pkg.WithClientIP(r, ip))
		})
	}
}
