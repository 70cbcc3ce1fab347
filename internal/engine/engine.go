// Package engine owns the link collection state: the ordered, URL-unique set
// of links, the visitation cursor, the active filter, and the import/export
// and preview-capture logic around them. All state lives on the Engine; there
// are no package-level mutables. Every mutating operation performs exactly one
// synchronous persistence write before returning.
package engine

import (
	"fmt"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/storage"
)

// NoCurrent is the cursor value when no link is being previewed.
const NoCurrent = -1

// Engine is the link collection state engine.
type Engine struct {
	backend    storage.Backend
	links      []model.Link
	current    int
	filter     Filter
	contactHop bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithContactHop enables the contact-link auto-navigation heuristic on
// preview loads.
func WithContactHop() Option {
	return func(e *Engine) { e.contactHop = true }
}

// New loads the stored envelope through the backend, migrates it to the
// current generation and immediately re-persists it so no later load ever
// migrates the same data again.
func New(backend storage.Backend, opts ...Option) (*Engine, error) {
	e := &Engine{backend: backend, current: NoCurrent}
	for _, opt := range opts {
		opt(e)
	}

	data, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load envelope: %w", err)
	}
	links, err := storage.DecodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	e.links = links

	if len(data) > 0 {
		if err := e.persist(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) persist() error {
	data, err := storage.EncodeEnvelope(e.links)
	if err != nil {
		return err
	}
	return e.backend.Save(data)
}

// Add normalizes and appends every URL found in raw, which may hold several
// URLs separated by newlines, commas or whitespace. Tags and note apply to
// each appended link. Empty tokens and URLs already in the collection are
// silently skipped. Returns the number of links appended; persists once when
// anything was added.
func (e *Engine) Add(raw string, tags []string, note string) (int, error) {
	added := 0
	for _, tok := range splitTokens(raw) {
		url := model.NormalizeURL(tok)
		if url == "" || e.indexOf(url) >= 0 {
			continue
		}
		e.links = append(e.links, model.Link{
			URL:  url,
			Tags: append([]string{}, tags...),
			Note: note,
		})
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, e.persist()
}

// SetVisited flips the visited flag on the link at index. This is the only
// path that sets visited back to false.
func (e *Engine) SetVisited(index int, visited bool) error {
	if index < 0 || index >= len(e.links) {
		return model.ErrNotFound
	}
	if e.links[index].Visited == visited {
		return nil
	}
	e.links[index].Visited = visited
	return e.persist()
}

// DeleteAll empties the collection and resets the cursor.
func (e *Engine) DeleteAll() error {
	e.links = nil
	e.current = NoCurrent
	return e.persist()
}

// Merge appends imported links that are not already present. Dedup is
// incremental against the live collection, so the first occurrence wins when
// a batch contains duplicates. Persists once for the whole batch.
func (e *Engine) Merge(imported []model.Link) (int, error) {
	added := 0
	for _, link := range imported {
		url := model.NormalizeURL(link.URL)
		if url == "" || e.indexOf(url) >= 0 {
			continue
		}
		link.URL = url
		if link.Tags == nil {
			link.Tags = []string{}
		}
		e.links = append(e.links, link)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, e.persist()
}

// Open makes the link at index current and marks it visited. Marking is
// monotonic on this path: opening an already-visited link does not touch the
// flag and does not persist. The caller is expected to point the viewer at
// the returned link's URL.
func (e *Engine) Open(index int) (model.Link, error) {
	if index < 0 || index >= len(e.links) {
		return model.Link{}, model.ErrNotFound
	}
	e.current = index
	if !e.links[index].Visited {
		e.links[index].Visited = true
		if err := e.persist(); err != nil {
			return e.links[index], err
		}
	}
	return e.links[index], nil
}

// Next opens the first unvisited link after the current one. When every
// remaining link is visited it returns ErrExhausted so the caller can show a
// completion message.
func (e *Engine) Next() (int, model.Link, error) {
	for i := e.current + 1; i < len(e.links); i++ {
		if !e.links[i].Visited {
			link, err := e.Open(i)
			return i, link, err
		}
	}
	return NoCurrent, model.Link{}, model.ErrExhausted
}

// Prev mirrors Next, scanning backward from the current link.
func (e *Engine) Prev() (int, model.Link, error) {
	start := e.current - 1
	if e.current == NoCurrent {
		start = len(e.links) - 1
	}
	for i := start; i >= 0; i-- {
		if !e.links[i].Visited {
			link, err := e.Open(i)
			return i, link, err
		}
	}
	return NoCurrent, model.Link{}, model.ErrExhausted
}

// CurrentIndex returns the cursor position, or NoCurrent.
func (e *Engine) CurrentIndex() int { return e.current }

// Current returns the link under the cursor.
func (e *Engine) Current() (model.Link, bool) {
	if e.current < 0 || e.current >= len(e.links) {
		return model.Link{}, false
	}
	return e.links[e.current], true
}

// Links returns a copy of the collection in insertion order.
func (e *Engine) Links() []model.Link {
	return append([]model.Link(nil), e.links...)
}

// Len returns the collection size.
func (e *Engine) Len() int { return len(e.links) }

// SetFilter replaces the active filter.
func (e *Engine) SetFilter(f Filter) { e.filter = f }

// Filter returns the active filter.
func (e *Engine) Filter() Filter { return e.filter }

// VisibleIndices returns the collection indices passing the active filter,
// in insertion order.
func (e *Engine) VisibleIndices() []int {
	return VisibleIndices(e.links, e.filter)
}

// VisibleLinks returns the links passing the active filter, in insertion
// order.
func (e *Engine) VisibleLinks() []model.Link {
	return VisibleLinks(e.links, e.filter)
}

// TagFacet returns the sorted union of all tags in the collection.
func (e *Engine) TagFacet() []string {
	return TagFacet(e.links)
}

// Stats reports visited and total counts.
func (e *Engine) Stats() (visited, total int) {
	for _, l := range e.links {
		if l.Visited {
			visited++
		}
	}
	return visited, len(e.links)
}

func (e *Engine) indexOf(url string) int {
	for i, l := range e.links {
		if l.URL == url {
			return i
		}
	}
	return -1
}
