package router

import (
	"net"
	"net/http"
	"strings"
)

// middlewareIP rewrites RemoteAddr to the client address reported by the
// proxy headers, falling back to the peer host.
func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rip := realIP(r); rip != "" {
			r.RemoteAddr = rip
		}
		next.ServeHTTP(w, r)
	})
}

var ipHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

func realIP(r *http.Request) string {
	var ip string
	for _, h := range ipHeaders {
		if v := r.Header.Get(h); v != "" {
			first, _, _ := strings.Cut(v, ",")
			ip = strings.TrimSpace(first)
			break
		}
	}

	if ip == "" || net.ParseIP(ip) == nil {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil && net.ParseIP(host) != nil {
			return host
		}
		return ""
	}
	return ip
}
