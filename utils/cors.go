package utils

import "strings"

// IsAllowedOrigin checks whether an Origin header value should be trusted.
// An empty allowlist trusts every origin; the read surface of the blog is
// public and token checks gate the writes.
func IsAllowedOrigin(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
