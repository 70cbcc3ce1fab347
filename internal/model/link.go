package model

import (
	"strings"
)

// Link is one tracked URL with its scouting metadata. Identity is the
// normalized URL: two links with equal normalized URLs are the same entity.
type Link struct {
	URL     string   `json:"url"`
	Visited bool     `json:"visited"`
	Tags    []string `json:"tags"`
	Note    string   `json:"note"`
	Title   string   `json:"title"`
}

// DisplayTitle returns the title, or the hostname when the title is unknown.
func (l *Link) DisplayTitle() string {
	if l.Title != "" {
		return l.Title
	}
	return HostnameFromURL(l.URL)
}

// HasTag reports whether the link carries the given tag.
func (l *Link) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SearchText returns the lowercased haystack the text filter matches against:
// url, title, note and tags joined with spaces.
func (l *Link) SearchText() string {
	parts := []string{l.URL, l.Title, l.Note}
	parts = append(parts, l.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// ParseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
