// Package viewer is the embedded preview the engine delegates URLs to. The
// engine never fetches anything itself; it points a Viewer at a URL and
// inspects the returned document when the origin policy allows it.
package viewer

import "context"

// Anchor is one link element found in a loaded document.
type Anchor struct {
	Text string
	Href string
}

// Document is read access to a loaded page. Title and Anchors are fallible
// capabilities: they return model.ErrCrossOrigin when the loaded content is
// not readable under the same-origin policy, which is an expected outcome,
// not an exceptional one.
type Document interface {
	Title() (string, error)
	Anchors() ([]Anchor, error)
}

// Viewer loads pages. Navigate blocks until the load completes and returns
// the loaded document; callers needing asynchrony wrap it themselves. A
// non-nil error means the page could not be loaded at all, as opposed to
// loaded but unreadable.
type Viewer interface {
	Navigate(ctx context.Context, url string) (Document, error)
}
