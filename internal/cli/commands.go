package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/engine"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/history"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/viewer"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// Commands handles all CLI command execution.
type Commands struct {
	engine  *engine.Engine
	history *history.Store
	viewer  viewer.Viewer
}

// NewCommands creates a new Commands instance.
func NewCommands(e *engine.Engine, h *history.Store, v viewer.Viewer) *Commands {
	return &Commands{engine: e, history: h, viewer: v}
}

// ParseIndex converts a 1-based position argument into a collection index.
func ParseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid link number: %s", s)
	}
	return n - 1, nil
}

// Add appends every URL found in raw, applying tags and note to each.
func (c *Commands) Add(raw, tags, note string) error {
	added, err := c.engine.Add(raw, model.ParseTags(tags), note)
	if err != nil {
		return c.persistWarn(err)
	}
	if added == 0 {
		fmt.Println("No new links added (empty input or duplicates).")
		return nil
	}
	fmt.Printf("%sAdded%s %s%d%s link(s).\n", colorGreen, colorReset, colorBold, added, colorReset)
	return nil
}

// List prints the links passing the given filter, capped at limit when > 0.
func (c *Commands) List(f engine.Filter, limit int) error {
	links := c.engine.Links()
	indices := engine.VisibleIndices(links, f)
	if limit > 0 && len(indices) > limit {
		indices = indices[:limit]
	}

	if len(indices) == 0 {
		fmt.Println("No links found.")
		return nil
	}

	printLinksTable(links, indices, c.engine.CurrentIndex())

	visited, total := c.engine.Stats()
	pct := 0
	if total > 0 {
		pct = visited * 100 / total
	}
	fmt.Printf("%s%d / %d visited (%d%% completed)%s\n", colorDim, visited, total, pct, colorReset)
	return nil
}

// Tags prints the tag facet.
func (c *Commands) Tags() error {
	tags := c.engine.TagFacet()
	if len(tags) == 0 {
		fmt.Println("No tags.")
		return nil
	}
	for _, t := range tags {
		fmt.Printf("%s%s%s\n", colorYellow, t, colorReset)
	}
	return nil
}

// Open previews the link at index, marking it visited.
func (c *Commands) Open(index int) error {
	link, err := c.engine.Open(index)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("no link at position %d", index+1)
		}
		if warnErr := c.persistWarn(err); warnErr != nil {
			return warnErr
		}
	}
	return c.preview(index, link)
}

// Next previews the first unvisited link after the current one.
func (c *Commands) Next() error {
	index, link, err := c.engine.Next()
	if errors.Is(err, model.ErrExhausted) {
		fmt.Println("All links visited. Great job!")
		return nil
	}
	if err != nil {
		if warnErr := c.persistWarn(err); warnErr != nil {
			return warnErr
		}
	}
	return c.preview(index, link)
}

// Prev previews the first unvisited link before the current one.
func (c *Commands) Prev() error {
	index, link, err := c.engine.Prev()
	if errors.Is(err, model.ErrExhausted) {
		fmt.Println("All links visited. Great job!")
		return nil
	}
	if err != nil {
		if warnErr := c.persistWarn(err); warnErr != nil {
			return warnErr
		}
	}
	return c.preview(index, link)
}

// preview drives one full viewer cycle for an opened link: load, metadata
// capture, optional contact hop, history record.
func (c *Commands) preview(index int, link model.Link) error {
	ctx := context.Background()

	outcome, err := c.loadOnce(ctx, index, link.URL)
	if err != nil {
		return err
	}

	if outcome.Redirect != "" {
		// The redirected load is a fresh cycle; the handler short-circuits
		// on the contact URL so this cannot recurse further.
		if _, err := c.loadOnce(ctx, index, outcome.Redirect); err != nil {
			return err
		}
	}

	if cur, ok := c.engine.Current(); ok {
		if _, err := c.history.Record(ctx, cur.URL, cur.Title); err != nil {
			return fmt.Errorf("record history: %w", err)
		}
	}
	return nil
}

func (c *Commands) loadOnce(ctx context.Context, index int, url string) (engine.PreviewOutcome, error) {
	ev := engine.LoadEvent{Index: index, URL: url}
	doc, err := c.viewer.Navigate(ctx, url)
	if err == nil {
		ev.Doc = doc
	}

	outcome, err := c.engine.HandleLoad(ev)
	if err != nil {
		if warnErr := c.persistWarn(err); warnErr != nil {
			return outcome, warnErr
		}
	}
	if outcome.Status != "" {
		fmt.Printf("%s%s%s\n", colorGreen, outcome.Status, colorReset)
	}
	if outcome.Contact != "" {
		fmt.Printf("%s%s%s\n", colorDim, outcome.Contact, colorReset)
	}
	return outcome, nil
}

// Visit marks a link visited without previewing it.
func (c *Commands) Visit(index int) error {
	return c.setVisited(index, true, "visited")
}

// Unvisit clears the visited flag; the only path that does.
func (c *Commands) Unvisit(index int) error {
	return c.setVisited(index, false, "unvisited")
}

func (c *Commands) setVisited(index int, visited bool, word string) error {
	if err := c.engine.SetVisited(index, visited); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("no link at position %d", index+1)
		}
		return c.persistWarn(err)
	}
	fmt.Printf("%sMarked%s link %s%d%s as %s.\n", colorGreen, colorReset, colorBold, index+1, colorReset, word)
	return nil
}

// Clear deletes every link. Destructive, so it refuses without confirmation.
func (c *Commands) Clear(confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("refusing to delete all links without --yes")
	}
	if err := c.engine.DeleteAll(); err != nil {
		return c.persistWarn(err)
	}
	fmt.Printf("%sDeleted%s all links.\n", colorRed, colorReset)
	return nil
}

// Import parses the payload and merges it into the collection. A malformed
// payload aborts the whole import; the collection is unchanged.
func (c *Commands) Import(payload []byte, kind engine.SourceKind) error {
	links, err := engine.ParseImport(payload, kind)
	if err != nil {
		if errors.Is(err, model.ErrFormat) {
			return fmt.Errorf("import failed, nothing was changed: %w", err)
		}
		return err
	}
	added, err := c.engine.Merge(links)
	if err != nil {
		return c.persistWarn(err)
	}
	fmt.Printf("%sImported%s %s%d%s link(s) (%d duplicates skipped).\n",
		colorGreen, colorReset, colorBold, added, colorReset, len(links)-added)
	return nil
}

// Export writes the collection to w: JSON is the full envelope, text is
// line-delimited URLs.
func (c *Commands) Export(w io.Writer, asJSON bool, scope engine.ExportScope) error {
	links := c.engine.Links()
	if asJSON {
		data, err := engine.ExportJSON(links, scope)
		if err != nil {
			return fmt.Errorf("export links: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}
	_, err := w.Write(engine.ExportText(links, scope))
	return err
}

// History prints the visit log, optionally filtered by a search query.
func (c *Commands) History(query string) error {
	entries, err := c.history.List(context.Background(), query)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history found.")
		return nil
	}
	printHistoryTable(entries)
	return nil
}

// HistoryDelete removes one history entry by ID.
func (c *Commands) HistoryDelete(id string) error {
	err := c.history.Delete(context.Background(), id)
	if errors.Is(err, model.ErrNotFound) {
		msg := fmt.Sprintf("history entry %s%s%s not found", colorBold, id, colorReset)
		if suggestion := c.suggestHistoryID(id); suggestion != "" {
			msg += fmt.Sprintf("\n\n%sDid you mean:%s %s%s%s?", colorYellow, colorReset, colorBold, suggestion, colorReset)
		}
		return fmt.Errorf("%s", msg)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%sDeleted%s history entry %s%s%s.\n", colorRed, colorReset, colorBold, id, colorReset)
	return nil
}

// HistoryClear removes the whole visit log.
func (c *Commands) HistoryClear(confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("refusing to clear history without --yes")
	}
	if err := c.history.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Printf("%sCleared%s history.\n", colorRed, colorReset)
	return nil
}

// persistWarn reports a persistence failure without pretending the in-memory
// change was rolled back.
func (c *Commands) persistWarn(err error) error {
	if errors.Is(err, model.ErrPersistence) {
		fmt.Printf("%sWarning:%s could not save; the change may not survive a reload (%v)\n",
			colorYellow, colorReset, err)
		return nil
	}
	return err
}

// suggestHistoryID suggests a similar history ID for a typo.
func (c *Commands) suggestHistoryID(id string) string {
	ids, err := c.history.IDs(context.Background())
	if err != nil || len(ids) == 0 {
		return ""
	}

	bestMatch := ""
	minDistance := len(id) + 1
	for _, candidate := range ids {
		distance := levenshteinDistance(id, candidate)
		if distance < minDistance && distance <= 3 {
			minDistance = distance
			bestMatch = candidate
		}
	}
	return bestMatch
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			matrix[i][j] = minOf(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func minOf(a, b, c int) int {
	if a < b && a < c {
		return a
	}
	if b < c {
		return b
	}
	return c
}

const (
	maxURLLen   = 50
	maxTitleLen = 40
	maxTagsLen  = 25
	ellipsisLen = 3
)

func printLinksTable(links []model.Link, indices []int, current int) {
	colNumLen := len("#")
	colStatusLen := len("V")
	colURLLen := len("URL")
	colTitleLen := len("TITLE")
	colTagsLen := len("TAGS")

	for _, i := range indices {
		link := links[i]
		if n := len(strconv.Itoa(i + 1)); n > colNumLen {
			colNumLen = n
		}
		if n := truncateLen(len(link.URL), maxURLLen); n > colURLLen {
			colURLLen = n
		}
		if n := truncateLen(len(link.DisplayTitle()), maxTitleLen); n > colTitleLen {
			colTitleLen = n
		}
		if n := truncateLen(len(strings.Join(link.Tags, ",")), maxTagsLen); n > colTagsLen {
			colTagsLen = n
		}
	}

	header := fmt.Sprintf("%s%-*s  %-*s  %-*s  %-*s  %-*s%s",
		colorBold,
		colNumLen, "#",
		colStatusLen, "V",
		colURLLen, "URL",
		colTitleLen, "TITLE",
		colTagsLen, "TAGS",
		colorReset)
	fmt.Println(header)

	for _, i := range indices {
		link := links[i]
		status := "·"
		statusColor := colorDim
		if link.Visited {
			status = "✓"
			statusColor = colorGreen
		}
		marker := colorReset
		if i == current {
			marker = colorBold
		}
		fmt.Printf("%s%-*d%s  %s%-*s%s  %s%-*s%s  %-*s  %s%-*s%s\n",
			marker, colNumLen, i+1, colorReset,
			statusColor, colStatusLen, status, colorReset,
			colorCyan, colURLLen, truncateString(link.URL, colURLLen), colorReset,
			colTitleLen, truncateString(link.DisplayTitle(), colTitleLen),
			colorYellow, colTagsLen, truncateString(strings.Join(link.Tags, ","), colTagsLen), colorReset)
	}
}

func printHistoryTable(entries []*history.Entry) {
	colIDLen := len("ID")
	colTitleLen := len("TITLE")
	colURLLen := len("URL")
	colWhenLen := len("VISITED")

	for _, e := range entries {
		if n := len(e.ID); n > colIDLen {
			colIDLen = n
		}
		if n := truncateLen(len(e.Title), maxTitleLen); n > colTitleLen {
			colTitleLen = n
		}
		if n := truncateLen(len(e.URL), maxURLLen); n > colURLLen {
			colURLLen = n
		}
		if n := len(formatTime(e.VisitedAt)); n > colWhenLen {
			colWhenLen = n
		}
	}

	fmt.Printf("%s%-*s  %-*s  %-*s  %-*s%s\n",
		colorBold,
		colIDLen, "ID",
		colTitleLen, "TITLE",
		colURLLen, "URL",
		colWhenLen, "VISITED",
		colorReset)

	for _, e := range entries {
		fmt.Printf("%s%-*s%s  %-*s  %s%-*s%s  %s%-*s%s\n",
			colorBold+colorCyan, colIDLen, e.ID, colorReset,
			colTitleLen, truncateString(e.Title, colTitleLen),
			colorCyan, colURLLen, truncateString(e.URL, colURLLen), colorReset,
			colorDim, colWhenLen, formatTime(e.VisitedAt), colorReset)
	}
}

func truncateLen(n, max int) int {
	if n > max {
		return max
	}
	return n
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= ellipsisLen {
		return s[:maxLen]
	}
	return s[:maxLen-ellipsisLen] + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
