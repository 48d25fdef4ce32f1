package session

import (
	"net"
	"net/url"
	"strings"
)

// LocalOrigin reports whether a page URL points at a local development
// context. Capture stays disabled on such pages so developer activity
// never pollutes the corpus.
func LocalOrigin(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme == "file" {
		return true
	}

	host := u.Hostname()
	if host == "" {
		return false
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	return false
}
