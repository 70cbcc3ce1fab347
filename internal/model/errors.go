package model

import "errors"

var (
	// ErrNotFound indicates a link or history entry was not found.
	ErrNotFound = errors.New("not found")

	// ErrFormat indicates a malformed import payload. It aborts the current
	// import only; the collection is left untouched.
	ErrFormat = errors.New("unrecognized import format")

	// ErrCrossOrigin indicates the viewer's document is not readable under
	// the same-origin policy. This is an expected outcome during title and
	// anchor scraping, never surfaced to the user.
	ErrCrossOrigin = errors.New("document not accessible across origins")

	// ErrExhausted signals that no unvisited links remain. It is a
	// completion signal, not a failure.
	ErrExhausted = errors.New("no unvisited links remain")

	// ErrPersistence indicates the backing store could not be written. The
	// in-memory collection stays usable, but the change may not survive a
	// reload.
	ErrPersistence = errors.New("persistence unavailable")
)
