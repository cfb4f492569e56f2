package http

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"

	"cad-ui-bridge/internal/logx"
)

// TokenHeader carries the per-run token pages receive in the websocket hello frame.
// A custom header also forces browsers to preflight cross-origin calls.
const TokenHeader = "X-Bridge-Token"

// hostGuard rejects requests addressed to any host other than loopback or the listen
// host, which keeps DNS rebound names away from the bridge.
func hostGuard(listen string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hostAllowed(listen, r.Host) {
				reject(w, r, "host not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// callGuard admits bridge calls only from allowed origins presenting the run token.
func callGuard(originPatterns []string, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !originAllowed(originPatterns, r.Host, r.Header.Get("Origin")) {
				reject(w, r, "origin not allowed")
				return
			}
			got := r.Header.Get(TokenHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				reject(w, r, "missing or invalid bridge token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, reason string) {
	logx.Log.Warn().
		Str("url", r.URL.String()).
		Str("host", r.Host).
		Str("origin", r.Header.Get("Origin")).
		Str("reason", reason).
		Msg("bridge request rejected")
	http.Error(w, reason, http.StatusForbidden)
}

func hostAllowed(listen, host string) bool {
	name, port, err := net.SplitHostPort(host)
	if err != nil {
		name, port = host, ""
	}
	name = strings.ToLower(strings.Trim(name, "[]"))

	listenHost, listenPort, err := net.SplitHostPort(listen)
	if err == nil && listenPort != "" && listenPort != "0" && port != listenPort {
		return false
	}

	switch name {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	listenHost = strings.ToLower(strings.Trim(listenHost, "[]"))
	if listenHost == "" || listenHost == "0.0.0.0" || listenHost == "::" {
		return false
	}
	return name == listenHost
}

// originAllowed matches the way the websocket handshake does: same host, or a host
// pattern in path.Match syntax. A missing origin is never allowed.
func originAllowed(patterns []string, host, origin string) bool {
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, host) {
		return true
	}
	for _, p := range patterns {
		if ok, err := path.Match(strings.ToLower(p), strings.ToLower(u.Host)); err == nil && ok {
			return true
		}
	}
	return false
}
