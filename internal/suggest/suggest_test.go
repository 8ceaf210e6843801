package suggest

import (
	"slices"
	"testing"

	"github.com/ghostprep/ghostprep/internal/section"
)

const doc = "## Async\n\n### Use async/await Correctly\n\na\n\n---\n\n### Avoid Blocking the Event Loop\n\nb\n\n---\n\n## Database\n\n### Batch Database Writes\n\nc\n"

func newIndex(t *testing.T) *TitleIndex {
	t.Helper()
	idx, err := NewTitleIndex(section.Titles(doc))
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSuggest(t *testing.T) {
	idx := newIndex(t)

	count, err := idx.DocCount()
	if err != nil {
		t.Fatalf("doc count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 indexed titles, got %d", count)
	}

	got, err := idx.Suggest("database", 5)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !slices.Contains(got, "Batch Database Writes") {
		t.Errorf("expected database title in suggestions, got %v", got)
	}
}

func TestSuggest_Typo(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Suggest("blockng", 5)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !slices.Contains(got, "Avoid Blocking the Event Loop") {
		t.Errorf("expected fuzzy match for typo, got %v", got)
	}
}

func TestSuggest_NoMatches(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Suggest("kubernetes", 5)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}

func TestSuggest_LimitsResults(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Suggest("the", 1)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) > 1 {
		t.Errorf("expected at most 1 suggestion, got %v", got)
	}
}
