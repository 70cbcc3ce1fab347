package engine

import (
	"strings"
	"testing"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/viewer"
)

// stubDoc fakes a loaded document. A nil titleErr makes the document
// readable; otherwise every access fails with it.
type stubDoc struct {
	title    string
	anchors  []viewer.Anchor
	titleErr error
}

func (d *stubDoc) Title() (string, error) {
	if d.titleErr != nil {
		return "", d.titleErr
	}
	return d.title, nil
}

func (d *stubDoc) Anchors() ([]viewer.Anchor, error) {
	if d.titleErr != nil {
		return nil, d.titleErr
	}
	return d.anchors, nil
}

func TestHandleLoadCapturesTitle(t *testing.T) {
	e, backend := newTestEngine(t)
	if _, err := e.Add("example.com", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	writesBefore := backend.Writes

	out, err := e.HandleLoad(LoadEvent{
		Index: 0,
		URL:   "https://example.com",
		Doc:   &stubDoc{title: "  Example Domain  "},
	})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if out.Stale {
		t.Fatal("unexpected stale outcome")
	}
	if out.Status != "Loaded: Example Domain" {
		t.Errorf("unexpected status: %q", out.Status)
	}
	if e.Links()[0].Title != "Example Domain" {
		t.Errorf("expected title stored, got %q", e.Links()[0].Title)
	}
	if backend.Writes != writesBefore+1 {
		t.Errorf("expected one persist for the title, got %d", backend.Writes-writesBefore)
	}
}

func TestHandleLoadTruncatesTitle(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Add("example.com", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	long := strings.Repeat("x", 300)
	if _, err := e.HandleLoad(LoadEvent{Index: 0, URL: "https://example.com", Doc: &stubDoc{title: long}}); err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if got := len([]rune(e.Links()[0].Title)); got != 120 {
		t.Errorf("expected 120-rune title, got %d", got)
	}
}

func TestHandleLoadCrossOriginFallsBackToHostname(t *testing.T) {
	e, backend := newTestEngine(t)
	if _, err := e.Add("example.com/deep/path", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	writesBefore := backend.Writes

	out, err := e.HandleLoad(LoadEvent{
		Index: 0,
		URL:   "https://example.com/deep/path",
		Doc:   &stubDoc{titleErr: model.ErrCrossOrigin},
	})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if out.Status != "Loaded: example.com" {
		t.Errorf("expected hostname fallback, got %q", out.Status)
	}
	if e.Links()[0].Title != "" {
		t.Errorf("expected no title stored, got %q", e.Links()[0].Title)
	}
	if backend.Writes != writesBefore {
		t.Errorf("expected no persist on fallback path, got %d extra", backend.Writes-writesBefore)
	}
}

func TestHandleLoadEmptyTitleFallsBack(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Add("example.com", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out, err := e.HandleLoad(LoadEvent{Index: 0, URL: "https://example.com", Doc: &stubDoc{title: "   "}})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if out.Status != "Loaded: example.com" {
		t.Errorf("expected hostname fallback for blank title, got %q", out.Status)
	}
}

func TestHandleLoadFetchFailureFallsBack(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Add("example.com", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// No document at all: the page never loaded.
	out, err := e.HandleLoad(LoadEvent{Index: 0, URL: "https://example.com"})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if out.Status != "Loaded: example.com" {
		t.Errorf("expected hostname fallback, got %q", out.Status)
	}
}

func TestHandleLoadStaleEventDiscarded(t *testing.T) {
	e, backend := newTestEngine(t)
	if _, err := e.Add("a.com b.com", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(1); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	writesBefore := backend.Writes

	// Completion for index 0 arrives after the cursor moved to 1.
	out, err := e.HandleLoad(LoadEvent{Index: 0, URL: "https://a.com", Doc: &stubDoc{title: "Stale"}})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if !out.Stale {
		t.Fatal("expected stale outcome")
	}
	if e.Links()[0].Title != "" {
		t.Errorf("stale event mutated the collection: %+v", e.Links()[0])
	}
	if backend.Writes != writesBefore {
		t.Error("stale event persisted")
	}
}

func TestContactHopFiresOnceAndShortCircuits(t *testing.T) {
	e, _ := newTestEngine(t, WithContactHop())
	if _, err := e.Add("example.com", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out, err := e.HandleLoad(LoadEvent{
		Index: 0,
		URL:   "https://example.com",
		Doc: &stubDoc{
			title: "Example",
			anchors: []viewer.Anchor{
				{Text: "Home", Href: "/"},
				{Text: "Contact Us", Href: "/contact"},
			},
		},
	})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if out.Contact != "Jumping to contact page" {
		t.Errorf("unexpected contact report: %q", out.Contact)
	}
	if out.Redirect != "https://example.com/contact" {
		t.Errorf("expected resolved contact URL, got %q", out.Redirect)
	}

	// The redirected load is a fresh cycle: the new URL matches the contact
	// pattern, so the heuristic must not redirect again.
	out, err = e.HandleLoad(LoadEvent{
		Index: 0,
		URL:   out.Redirect,
		Doc: &stubDoc{
			title: "Contact Example",
			anchors: []viewer.Anchor{
				{Text: "Contact Us", Href: "/contact"},
			},
		},
	})
	if err != nil {
		t.Fatalf("second HandleLoad failed: %v", err)
	}
	if out.Redirect != "" {
		t.Errorf("contact heuristic looped: redirect %q", out.Redirect)
	}
	if out.Contact != "No contact link detected" {
		t.Errorf("unexpected second contact report: %q", out.Contact)
	}
}

func TestContactHopNoMatch(t *testing.T) {
	e, _ := newTestEngine(t, WithContactHop())
	if _, err := e.Add("example.com", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out, err := e.HandleLoad(LoadEvent{
		Index: 0,
		URL:   "https://example.com",
		Doc: &stubDoc{
			title:   "Example",
			anchors: []viewer.Anchor{{Text: "Home", Href: "/"}},
		},
	})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if out.Contact != "No contact link detected" || out.Redirect != "" {
		t.Errorf("unexpected outcome: %+v", out)
	}
}

func TestContactHopDisabledByDefault(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Add("example.com", nil, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.Open(0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out, err := e.HandleLoad(LoadEvent{
		Index: 0,
		URL:   "https://example.com",
		Doc: &stubDoc{
			title:   "Example",
			anchors: []viewer.Anchor{{Text: "Contact", Href: "/contact"}},
		},
	})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if out.Contact != "" || out.Redirect != "" {
		t.Errorf("heuristic ran while disabled: %+v", out)
	}
}
