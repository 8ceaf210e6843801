package section

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const sampleDoc = "## Cat\n\n### Use X\n\nBody text.\n\n---\n\n### Use Y\n\nOther.\n"

func TestFind_ExactTitle(t *testing.T) {
	sub, err := Find(sampleDoc, "use x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Title != "Use X" {
		t.Errorf("expected title %q, got %q", "Use X", sub.Title)
	}
	if sub.Body != "Body text." {
		t.Errorf("expected body %q, got %q", "Body text.", sub.Body)
	}
	if got := EnclosingCategory(sampleDoc, sub.Start); got != "Cat" {
		t.Errorf("expected category %q, got %q", "Cat", got)
	}
}

func TestFind_NoMatch(t *testing.T) {
	_, err := Find(sampleDoc, "zzz")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFind_BidirectionalMatching(t *testing.T) {
	tests := []struct {
		name string
		term string
		want string
	}{
		{"term inside title", "x", "Use X"},
		{"title inside term", "please use x for everything", "Use X"},
		{"case insensitive", "USE Y", "Use Y"},
		{"first match wins", "use", "Use X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := Find(sampleDoc, tt.term)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sub.Title != tt.want {
				t.Errorf("term %q: expected title %q, got %q", tt.term, tt.want, sub.Title)
			}
		})
	}
}

func TestFind_EmptyInputs(t *testing.T) {
	if _, err := Find("", "anything"); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty document: expected ErrNotFound, got %v", err)
	}
	if _, err := Find(sampleDoc, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty term: expected ErrNotFound, got %v", err)
	}
	if _, err := Find(sampleDoc, "   "); !errors.Is(err, ErrNotFound) {
		t.Errorf("blank term: expected ErrNotFound, got %v", err)
	}
}

func TestFind_BoundaryAtHorizontalRule(t *testing.T) {
	sub, err := Find(sampleDoc, "use x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(sub.Body, "---") {
		t.Errorf("body should exclude the rule line, got %q", sub.Body)
	}
	if strings.HasSuffix(sub.Body, "\n") || strings.HasSuffix(sub.Body, " ") {
		t.Errorf("body should be trimmed of trailing whitespace, got %q", sub.Body)
	}
}

func TestFind_BoundaryAtNextCategory(t *testing.T) {
	doc := "## One\n\n### Alpha\n\nAlpha body.\n\n## Two\n\n### Beta\n\nBeta body.\n"
	sub, err := Find(doc, "alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Body != "Alpha body." {
		t.Errorf("expected body to stop at next category heading, got %q", sub.Body)
	}
}

func TestFind_BoundaryAtEndOfDocument(t *testing.T) {
	doc := "### Solo\n\nRuns to the end.\n\nSecond paragraph.\n"
	sub, err := Find(doc, "solo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Runs to the end.\n\nSecond paragraph."
	if sub.Body != want {
		t.Errorf("expected body %q, got %q", want, sub.Body)
	}
	if sub.End != len(doc) {
		t.Errorf("expected end offset %d, got %d", len(doc), sub.End)
	}
}

func TestFind_EarlierOfRuleAndCategory(t *testing.T) {
	// Rule appears before the next category heading: the rule terminates.
	doc := "### A\n\nbody\n\n---\n\n## Next\n"
	sub, err := Find(doc, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Body != "body" {
		t.Errorf("expected %q, got %q", "body", sub.Body)
	}

	// Category heading appears first: it terminates.
	doc = "### B\n\nbody\n\n## Next\n\n---\n"
	sub, err = Find(doc, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Body != "body" {
		t.Errorf("expected %q, got %q", "body", sub.Body)
	}
}

func TestFind_RuleRequiresOwnLine(t *testing.T) {
	doc := "### C\n\nuse --- inline dashes\n\nmore text\n"
	sub, err := Find(doc, "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sub.Body, "more text") {
		t.Errorf("inline dashes must not terminate the section, got %q", sub.Body)
	}
}

func TestFind_FullSection(t *testing.T) {
	sub, err := Find(sampleDoc, "use x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "### Use X\n\nBody text."
	if sub.FullSection != want {
		t.Errorf("expected full section %q, got %q", want, sub.FullSection)
	}
}

func TestFind_DeeperHeadingsIgnored(t *testing.T) {
	doc := "#### Not a technique\n\n### Real\n\nbody\n"
	sub, err := Find(doc, "real")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Title != "Real" {
		t.Errorf("expected %q, got %q", "Real", sub.Title)
	}
	if _, err := Find(doc, "not a technique"); !errors.Is(err, ErrNotFound) {
		t.Errorf("level-4 headings must not match, got %v", err)
	}
}

func TestEnclosingCategory(t *testing.T) {
	doc := "## First\n\n## Second\n\n### Tech\n\nbody\n"
	sub, err := Find(doc, "tech")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := EnclosingCategory(doc, sub.Start); got != "Second" {
		t.Errorf("expected closest preceding category %q, got %q", "Second", got)
	}
}

func TestEnclosingCategory_Default(t *testing.T) {
	doc := "### Orphan\n\nbody\n\n## Later\n"
	sub, err := Find(doc, "orphan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := EnclosingCategory(doc, sub.Start); got != DefaultCategory {
		t.Errorf("expected %q, got %q", DefaultCategory, got)
	}
}

func TestTitles(t *testing.T) {
	got := slices.Collect(Titles(sampleDoc))
	want := []string{"Use X", "Use Y"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTitles_Restartable(t *testing.T) {
	seq := Titles(sampleDoc)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second pass %v differs from first %v", second, first)
	}
}

func TestTitles_Empty(t *testing.T) {
	if got := slices.Collect(Titles("no headings here\n")); len(got) != 0 {
		t.Errorf("expected no titles, got %v", got)
	}
}

func TestAll_Offsets(t *testing.T) {
	subs := slices.Collect(All(sampleDoc))
	if len(subs) != 2 {
		t.Fatalf("expected 2 subsections, got %d", len(subs))
	}
	for i, sub := range subs {
		if !strings.HasPrefix(sampleDoc[sub.Start:], "### "+sub.Title) {
			t.Errorf("subsection %d: start offset %d does not point at its heading", i, sub.Start)
		}
		if got := strings.TrimRight(sampleDoc[sub.ContentStart:sub.End], " \t\r\n"); got != sub.Body {
			t.Errorf("subsection %d: offsets slice to %q, body is %q", i, got, sub.Body)
		}
	}
	if subs[1].End != len(sampleDoc) {
		t.Errorf("last subsection should run to end of document, got %d", subs[1].End)
	}
}
