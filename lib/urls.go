package lib

import (
	"net/url"
	"strings"
)

// NormalizeBaseURL validates a user provided base URL and strips any
// trailing slash so paths can be appended uniformly.
func NormalizeBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" {
		parsed, err = url.Parse("http://" + raw)
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSuffix(parsed.String(), "/"), nil
}

// IsURL reports whether the given source looks like a remote URL
// rather than a local file path.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
