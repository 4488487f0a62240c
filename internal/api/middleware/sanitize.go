package middleware

import (
	"net/http"
	"strings"

	"github.com/wardenproject/warden/internal/util"
)

// sensitiveHeaders are redacted before any log output; the admin credential
// headers matter most here.
var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"x-admin-key":   {},
	"x-api-key":     {},
	"x-auth-token":  {},
}

// SanitizeHeaders returns header values safe for logging: credentials
// redacted, the rest cleaned of control characters and truncated.
func SanitizeHeaders(h http.Header) map[string][]string {
	if h == nil {
		return nil
	}
	out := make(map[string][]string, len(h))
	for key, values := range h {
		if _, ok := sensitiveHeaders[strings.ToLower(key)]; ok {
			out[key] = []string{"<redacted>"}
			continue
		}
		cleaned := make([]string, 0, len(values))
		for _, v := range values {
			cleaned = append(cleaned, truncate(util.SanitizeForLog(v)))
		}
		out[key] = cleaned
	}
	return out
}

// SanitizePath prepares a request path for logging: query stripped, control
// characters removed, long values truncated.
func SanitizePath(p string) string {
	if i := strings.Index(p, "?"); i != -1 {
		p = p[:i]
	}
	return truncate(util.SanitizeForLog(p))
}

func truncate(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
