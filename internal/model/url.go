package model

import (
	"net/url"
	"regexp"
	"strings"
)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL canonicalizes raw input into an absolute URL string. Input
// without a scheme gets an https:// prefix. Empty or whitespace-only input
// normalizes to the empty string, which callers must treat as "discard".
// No syntactic validation is performed beyond that; whether the URL is
// actually fetchable is the viewer's problem.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !schemeRe.MatchString(s) {
		s = "https://" + s
	}
	return s
}

// HostnameFromURL extracts the hostname from a URL string, falling back to
// the raw string when it cannot be parsed.
func HostnameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
