package engine

import (
	"net/url"
	"strings"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/viewer"
)

// titleLimit bounds auto-captured titles.
const titleLimit = 120

const contactPattern = "contact"

// LoadEvent describes a completed preview load. Index and URL identify what
// the load was issued for, so the handler can detect that the cursor moved
// on while the load was in flight.
type LoadEvent struct {
	Index int
	URL   string
	Doc   viewer.Document // nil when the page could not be fetched at all
}

// PreviewOutcome is what the presentation layer shows after a load completes.
type PreviewOutcome struct {
	// Stale means the cursor no longer points at the link this load was for;
	// all side effects were discarded.
	Stale bool

	// Status is the "Loaded: ..." line.
	Status string

	// Contact reports the contact heuristic's verdict, empty when disabled.
	Contact string

	// Redirect, when non-empty, is the contact URL the viewer should be
	// re-pointed at.
	Redirect string
}

// HandleLoad runs the best-effort metadata capture for a completed load:
// same-origin title scrape with silent cross-origin fallback, and the
// optional contact-link heuristic. A redirected contact load arrives as a
// fresh event whose URL matches the contact pattern, so the heuristic
// short-circuits and cannot loop.
func (e *Engine) HandleLoad(ev LoadEvent) (PreviewOutcome, error) {
	var out PreviewOutcome

	if ev.Index != e.current || ev.Index < 0 || ev.Index >= len(e.links) {
		out.Stale = true
		return out, nil
	}
	link := &e.links[ev.Index]

	title, titleOK := readTitle(ev.Doc)
	if !titleOK || title == "" {
		out.Status = "Loaded: " + model.HostnameFromURL(link.URL)
		return out, nil
	}

	title = truncateTitle(title)
	var persistErr error
	if link.Title != title {
		link.Title = title
		persistErr = e.persist()
	}
	out.Status = "Loaded: " + title

	if e.contactHop {
		out.Contact, out.Redirect = e.contactScan(ev)
	}
	return out, persistErr
}

func readTitle(doc viewer.Document) (string, bool) {
	if doc == nil {
		return "", false
	}
	title, err := doc.Title()
	if err != nil {
		// Cross-origin access is expected; anything else degrades the same way.
		return "", false
	}
	return strings.TrimSpace(title), true
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit])
	}
	return title
}

// contactScan looks for an anchor whose text or href mentions "contact".
// Runs at most once per load event: when the loaded URL itself already
// matches the pattern (as it does right after a contact redirect), it
// reports without redirecting.
func (e *Engine) contactScan(ev LoadEvent) (report, redirect string) {
	if matchesContact(ev.URL) {
		return "No contact link detected", ""
	}

	// Anchor access fails the same way the title read can; the heuristic
	// simply has nothing to scan then.
	anchors, err := ev.Doc.Anchors()
	if err != nil {
		return "No contact link detected", ""
	}

	for _, a := range anchors {
		if matchesContact(a.Text) || matchesContact(a.Href) {
			target := resolveHref(ev.URL, a.Href)
			if target == "" {
				continue
			}
			return "Jumping to contact page", target
		}
	}
	return "No contact link detected", ""
}

func matchesContact(s string) bool {
	return strings.Contains(strings.ToLower(s), contactPattern)
}

// resolveHref resolves a possibly relative href against the page it was
// found on.
func resolveHref(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || ref.String() == "" {
		return ""
	}
	return base.ResolveReference(ref).String()
}
