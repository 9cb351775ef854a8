package security

import (
	"net/url"
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// secretParams lists the query parameters masked by RedactURL
var secretParams = []string{"username", "password"}

// SanitizeCredential trims whitespace and strips control characters that
// would allow header or URL injection.
func SanitizeCredential(value string) string {
	return controlChars.ReplaceAllString(strings.TrimSpace(value), "")
}

// MaskSecret creates a masked version for logging (shows only first/last few chars)
func MaskSecret(secret string) string {
	if len(secret) == 0 {
		return "[empty]"
	}

	if len(secret) <= 8 {
		return "[***]"
	}

	// Show first 3 and last 3 characters
	return secret[:3] + "..." + secret[len(secret)-3:]
}

// RedactURL masks credential query values so the URL can be logged.
// The rest of the query string is kept byte for byte.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable url]"
	}

	parts := strings.Split(u.RawQuery, "&")
	for i, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok || !isSecretParam(key) {
			continue
		}
		if unescaped, err := url.QueryUnescape(value); err == nil {
			value = unescaped
		}
		parts[i] = key + "=" + MaskSecret(value)
	}
	u.RawQuery = strings.Join(parts, "&")

	return u.String()
}

func isSecretParam(key string) bool {
	for _, p := range secretParams {
		if strings.EqualFold(key, p) {
			return true
		}
	}
	return false
}
