package engine

import (
	"reflect"
	"testing"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

func filterFixture() []model.Link {
	return []model.Link{
		{URL: "https://golang.org", Title: "The Go Programming Language", Tags: []string{"go", "lang"}},
		{URL: "https://example.com", Visited: true, Note: "boring sample", Tags: []string{"web"}},
		{URL: "https://go.dev/blog", Visited: true, Tags: []string{"go"}},
		{URL: "https://news.site", Title: "News"},
	}
}

func TestNeutralFilterIsIdentity(t *testing.T) {
	links := filterFixture()
	got := VisibleLinks(links, Filter{})
	if !reflect.DeepEqual(got, links) {
		t.Errorf("neutral filter changed the collection:\n%+v\n%+v", got, links)
	}
}

func TestVisitedModeGate(t *testing.T) {
	links := filterFixture()

	visited := VisibleIndices(links, Filter{Visited: VisitedOnly})
	if !reflect.DeepEqual(visited, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", visited)
	}

	unvisited := VisibleIndices(links, Filter{Visited: UnvisitedOnly})
	if !reflect.DeepEqual(unvisited, []int{0, 3}) {
		t.Errorf("expected [0 3], got %v", unvisited)
	}
}

func TestTagGate(t *testing.T) {
	links := filterFixture()
	got := VisibleIndices(links, Filter{Tag: "go"})
	if !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("expected [0 2], got %v", got)
	}
}

func TestTextGate(t *testing.T) {
	links := filterFixture()

	// Case-insensitive, matches across url, title, note and tags.
	if got := VisibleIndices(links, Filter{Text: "PROGRAMMING"}); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("title match: expected [0], got %v", got)
	}
	if got := VisibleIndices(links, Filter{Text: "boring"}); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("note match: expected [1], got %v", got)
	}
	if got := VisibleIndices(links, Filter{Text: "lang"}); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("tag match: expected [0], got %v", got)
	}
	if got := VisibleIndices(links, Filter{Text: "nowhere"}); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestGatesCompose(t *testing.T) {
	links := filterFixture()
	got := VisibleIndices(links, Filter{Visited: VisitedOnly, Tag: "go", Text: "blog"})
	if !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("expected [2], got %v", got)
	}
}

func TestTagFacet(t *testing.T) {
	links := filterFixture()
	got := TagFacet(links)
	want := []string{"go", "lang", "web"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := TagFacet(nil); len(got) != 0 {
		t.Errorf("expected empty facet, got %v", got)
	}
}
