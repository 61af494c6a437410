package session

import (
	"net/url"
	"strings"
)

// SafeReturnPath - путь для возврата после входа. Только локальные пути:
// "//evil.com" и абсолютные URL превращаются в fallback.
func SafeReturnPath(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return u.RequestURI()
}
