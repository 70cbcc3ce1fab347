package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	return s
}

func TestRecordAndList(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()
	ctx := context.Background()

	first, err := s.Record(ctx, "https://a.com", "A Site")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if !model.ValidShortID(first.ID) {
		t.Errorf("expected valid short ID, got %q", first.ID)
	}
	if _, err := s.Record(ctx, "https://b.com", "B Site"); err != nil {
		t.Fatalf("second Record failed: %v", err)
	}

	entries, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].VisitedAt.IsZero() {
		t.Error("expected non-zero VisitedAt")
	}
}

func TestRecordTitleFallsBackToURL(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	e, err := s.Record(context.Background(), "https://a.com", "")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if e.Title != "https://a.com" {
		t.Errorf("expected URL as title fallback, got %q", e.Title)
	}
}

func TestListSearch(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Record(ctx, "https://golang.org", "The Go Programming Language"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := s.Record(ctx, "https://example.com", "Example"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	byTitle, err := s.List(ctx, "Programming")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].URL != "https://golang.org" {
		t.Errorf("unexpected title search result: %+v", byTitle)
	}

	byURL, err := s.List(ctx, "example.com")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byURL) != 1 || byURL[0].URL != "https://example.com" {
		t.Errorf("unexpected url search result: %+v", byURL)
	}

	none, err := s.List(ctx, "nomatch")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no results, got %d", len(none))
	}
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()
	ctx := context.Background()

	e, err := s.Record(ctx, "https://a.com", "A")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if err := s.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	entries, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}

	if err := s.Delete(ctx, e.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
	if err := s.Delete(ctx, "!bad!"); err == nil {
		t.Error("expected error for malformed ID")
	}
}

func TestClear(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()
	ctx := context.Background()

	for _, u := range []string{"https://a.com", "https://b.com"} {
		if _, err := s.Record(ctx, u, ""); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	entries, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history after clear, got %d", len(entries))
	}
}

func TestPruneExpiredEntries(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Record(ctx, "https://fresh.com", "Fresh"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Backdate one entry beyond the retention window.
	old := time.Now().UTC().Add(-Retention - 24*time.Hour).Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO history (id, url, title, visited_at) VALUES (?, ?, ?, ?)",
		model.NewShortID(), "https://stale.com", "Stale", old); err != nil {
		t.Fatalf("insert backdated entry: %v", err)
	}

	if err := s.prune(ctx); err != nil {
		t.Fatalf("prune failed: %v", err)
	}

	entries, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].URL != "https://fresh.com" {
		t.Errorf("expected only the fresh entry to survive, got %+v", entries)
	}
}

func TestIDs(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()
	ctx := context.Background()

	e, err := s.Record(ctx, "https://a.com", "")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	ids, err := s.IDs(ctx)
	if err != nil {
		t.Fatalf("IDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != e.ID {
		t.Errorf("unexpected IDs: %v", ids)
	}
}
