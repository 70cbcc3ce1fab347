package engine

import (
	"sort"
	"strings"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

// VisitedMode selects which visited states pass the filter.
type VisitedMode int

const (
	VisitedAll VisitedMode = iota
	VisitedOnly
	UnvisitedOnly
)

// Filter is the current view state: free text, visited mode and tag. The
// zero value passes every link.
type Filter struct {
	Text    string
	Visited VisitedMode
	Tag     string // empty means all tags
}

func (f Filter) matches(l *model.Link) bool {
	switch f.Visited {
	case VisitedOnly:
		if !l.Visited {
			return false
		}
	case UnvisitedOnly:
		if l.Visited {
			return false
		}
	}
	if f.Tag != "" && !l.HasTag(f.Tag) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Text)); q != "" {
		if !strings.Contains(l.SearchText(), q) {
			return false
		}
	}
	return true
}

// VisibleIndices returns the indices of links passing the filter, preserving
// insertion order.
func VisibleIndices(links []model.Link, f Filter) []int {
	idx := make([]int, 0, len(links))
	for i := range links {
		if f.matches(&links[i]) {
			idx = append(idx, i)
		}
	}
	return idx
}

// VisibleLinks returns the links passing the filter, preserving insertion
// order. The input is not mutated.
func VisibleLinks(links []model.Link, f Filter) []model.Link {
	out := make([]model.Link, 0, len(links))
	for i := range links {
		if f.matches(&links[i]) {
			out = append(out, links[i])
		}
	}
	return out
}

// TagFacet returns the union of every link's tags, lexicographically sorted.
// Recomputed on demand; the collection is small.
func TagFacet(links []model.Link) []string {
	set := make(map[string]bool)
	for i := range links {
		for _, t := range links[i].Tags {
			set[t] = true
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
