package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/storage"
)

// SourceKind identifies an import payload format.
type SourceKind int

const (
	SourceJSON SourceKind = iota
	SourceText
)

// ExportScope selects which links an export includes.
type ExportScope int

const (
	ExportAll ExportScope = iota
	ExportUnvisited
)

var tokenSplitRe = regexp.MustCompile(`[\s,]+`)

func splitTokens(raw string) []string {
	fields := tokenSplitRe.Split(raw, -1)
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParseImport parses an external payload into links without touching the
// collection. Text payloads are split on newline, comma and whitespace runs,
// one fresh unvisited link per token. JSON payloads may be a bare array of
// URL strings or an envelope in any known generation. Malformed payloads
// fail with ErrFormat and nothing is imported: the batch is all-or-nothing
// at the parse stage.
func ParseImport(payload []byte, kind SourceKind) ([]model.Link, error) {
	switch kind {
	case SourceText:
		return parseTextImport(string(payload)), nil
	case SourceJSON:
		return parseJSONImport(payload)
	default:
		return nil, fmt.Errorf("%w: unknown source kind", model.ErrFormat)
	}
}

func parseTextImport(payload string) []model.Link {
	links := make([]model.Link, 0)
	for _, tok := range splitTokens(payload) {
		url := model.NormalizeURL(tok)
		if url == "" {
			continue
		}
		links = append(links, model.Link{URL: url, Tags: []string{}})
	}
	return links
}

func parseJSONImport(payload []byte) ([]model.Link, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", model.ErrFormat)
	}

	switch trimmed[0] {
	case '[':
		// Bare sequence: each element is a URL string.
		var urls []string
		if err := json.Unmarshal(trimmed, &urls); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrFormat, err)
		}
		links := make([]model.Link, 0, len(urls))
		for _, u := range urls {
			url := model.NormalizeURL(u)
			if url == "" {
				continue
			}
			links = append(links, model.Link{URL: url, Tags: []string{}})
		}
		return links, nil

	case '{':
		// Envelope: require a links array, then reuse the migrator so the
		// legacy generations are accepted with the same field defaulting.
		var shape struct {
			Links json.RawMessage `json:"links"`
		}
		if err := json.Unmarshal(trimmed, &shape); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrFormat, err)
		}
		if !isJSONArray(shape.Links) {
			return nil, fmt.Errorf("%w: envelope has no links array", model.ErrFormat)
		}
		links, err := storage.DecodeEnvelope(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrFormat, err)
		}
		return links, nil

	default:
		return nil, fmt.Errorf("%w: payload is neither array nor envelope", model.ErrFormat)
	}
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// ExportText serializes the scoped links as line-delimited URLs. Pure.
func ExportText(links []model.Link, scope ExportScope) []byte {
	var b strings.Builder
	for i := range links {
		if scope == ExportUnvisited && links[i].Visited {
			continue
		}
		b.WriteString(links[i].URL)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// ExportJSON serializes the scoped links as a current-generation envelope.
// Pure.
func ExportJSON(links []model.Link, scope ExportScope) ([]byte, error) {
	if scope == ExportUnvisited {
		filtered := make([]model.Link, 0, len(links))
		for i := range links {
			if !links[i].Visited {
				filtered = append(filtered, links[i])
			}
		}
		links = filtered
	}
	return storage.EncodeEnvelope(links)
}
