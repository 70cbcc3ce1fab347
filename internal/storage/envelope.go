package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

// Envelope is the current-generation serialized form.
type Envelope struct {
	Links []model.Link `json:"links"`
}

// Two earlier generations are accepted on load:
//
//	Gen 0: {"links": ["a.com", ...], "visited": [1, 3]}   visited holds indices
//	Gen 1: {"links": [{"url": ..., "visited": ...}, ...]} optional fields may be
//	       absent or of the wrong type
//
// Generation is detected by shape: a non-empty links array whose first element
// is a bare string is Gen 0, an array of objects is Gen 1/current, anything
// else decodes to an empty collection. Decoding is idempotent and never fails
// on malformed per-item data; a bad field degrades to its default.

type rawEnvelope struct {
	Links   json.RawMessage `json:"links"`
	Visited json.RawMessage `json:"visited"`
}

type rawLink struct {
	URL     string          `json:"url"`
	Visited json.RawMessage `json:"visited"`
	Tags    json.RawMessage `json:"tags"`
	Note    string          `json:"note"`
	Title   string          `json:"title"`
}

// DecodeEnvelope migrates raw envelope bytes of any known generation into the
// current link shape. nil or empty input yields an empty collection. An error
// is returned only when the payload is not a JSON object at all.
func DecodeEnvelope(data []byte) ([]model.Link, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	// A links field that is absent or not an array degrades to an empty
	// collection rather than failing the load.
	var items []json.RawMessage
	if err := json.Unmarshal(raw.Links, &items); err != nil || len(items) == 0 {
		return nil, nil
	}

	if isJSONString(items[0]) {
		return decodeGen0(items, raw.Visited), nil
	}
	return decodeLinkRecords(items), nil
}

// EncodeEnvelope serializes links in the current generation.
func EncodeEnvelope(links []model.Link) ([]byte, error) {
	env := Envelope{Links: links}
	if env.Links == nil {
		env.Links = []model.Link{}
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return data, nil
}

func decodeGen0(items []json.RawMessage, visitedRaw json.RawMessage) []model.Link {
	// The visited index list tolerates the same malformed shapes the links
	// do: a non-array field means no indices, a non-numeric entry is ignored.
	visited := make(map[int]bool)
	var indices []json.RawMessage
	if err := json.Unmarshal(visitedRaw, &indices); err == nil {
		for _, r := range indices {
			var i int
			if err := json.Unmarshal(r, &i); err == nil {
				visited[i] = true
			}
		}
	}

	links := make([]model.Link, 0, len(items))
	seen := make(map[string]bool)
	for i, item := range items {
		var u string
		if err := json.Unmarshal(item, &u); err != nil {
			continue
		}
		url := model.NormalizeURL(u)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		links = append(links, model.Link{
			URL:     url,
			Visited: visited[i],
			Tags:    []string{},
		})
	}
	return links
}

// decodeLinkRecords handles Gen 1 and current shapes. Shared with the JSON
// import path, which accepts the same envelope forms.
func decodeLinkRecords(items []json.RawMessage) []model.Link {
	links := make([]model.Link, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		var rec rawLink
		if err := json.Unmarshal(item, &rec); err != nil {
			// A bare string mixed into an object list is still a URL.
			var u string
			if err := json.Unmarshal(item, &u); err != nil {
				continue
			}
			rec = rawLink{URL: u}
		}
		url := model.NormalizeURL(rec.URL)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		links = append(links, model.Link{
			URL:     url,
			Visited: coerceBool(rec.Visited),
			Tags:    coerceTags(rec.Tags),
			Note:    rec.Note,
			Title:   rec.Title,
		})
	}
	return links
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// coerceBool applies loose truthiness to a visited field that older payloads
// may carry as a number or string.
func coerceBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s != ""
	}
	return false
}

// coerceTags defaults to an empty set when the field is absent or not an
// array of strings.
func coerceTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
