package viewer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

const maxBodyBytes = 4 << 20

// HTTPViewer loads pages over HTTP. Document access follows a same-origin
// policy: when redirects land on a different origin than the one requested,
// or the response is not HTML, the document is treated as unreadable and
// Title/Anchors return model.ErrCrossOrigin.
type HTTPViewer struct {
	client    *http.Client
	userAgent string
}

// NewHTTPViewer creates a viewer with a sane default timeout.
func NewHTTPViewer(userAgent string) *HTTPViewer {
	return &HTTPViewer{
		client:    &http.Client{Timeout: 20 * time.Second},
		userAgent: userAgent,
	}
}

// Navigate fetches the URL and returns the loaded document. Fetch failures
// (network, non-parseable URL) are load errors; an unreadable document is
// still returned successfully and fails only on access.
func (v *HTTPViewer) Navigate(ctx context.Context, rawURL string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if v.userAgent != "" {
		req.Header.Set("User-Agent", v.userAgent)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	defer resp.Body.Close()

	doc := &httpDocument{
		sameOrigin: sameOrigin(req.URL, resp.Request.URL),
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "html") {
		doc.sameOrigin = false
		return doc, nil
	}

	parsed, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		doc.sameOrigin = false
		return doc, nil
	}
	doc.doc = parsed
	return doc, nil
}

func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}

type httpDocument struct {
	sameOrigin bool
	doc        *goquery.Document
}

func (d *httpDocument) Title() (string, error) {
	if !d.sameOrigin || d.doc == nil {
		return "", model.ErrCrossOrigin
	}
	return strings.TrimSpace(d.doc.Find("title").First().Text()), nil
}

func (d *httpDocument) Anchors() ([]Anchor, error) {
	if !d.sameOrigin || d.doc == nil {
		return nil, model.ErrCrossOrigin
	}
	var anchors []Anchor
	d.doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		anchors = append(anchors, Anchor{
			Text: strings.TrimSpace(sel.Text()),
			Href: href,
		})
	})
	return anchors, nil
}
