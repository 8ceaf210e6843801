package article

import (
	"strings"
	"testing"

	"github.com/ghostprep/ghostprep/internal/section"
)

const doc = "## Async\n\n### Use async/await Correctly!\n\nAwait in parallel. Never block the loop.\n\n---\n\n### Other\n\nx\n"

func buildFixture(t *testing.T) Article {
	t.Helper()
	sub, err := section.Find(doc, "use async/await correctly!")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	a, err := Build(sub, section.EnclosingCategory(doc, sub.Start), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return a
}

func TestBuild(t *testing.T) {
	a := buildFixture(t)

	if a.Title != "Use async/await Correctly!" {
		t.Errorf("title: got %q", a.Title)
	}
	if a.Slug != "use-asyncawait-correctly" {
		t.Errorf("slug: got %q", a.Slug)
	}
	if a.Category != "Async" {
		t.Errorf("category: got %q", a.Category)
	}
	if a.Content != "Await in parallel. Never block the loop." {
		t.Errorf("content: got %q", a.Content)
	}
	if !strings.Contains(a.HTML, "<h3") || !strings.Contains(a.HTML, "Await in parallel.") {
		t.Errorf("html: got %q", a.HTML)
	}
	if a.Excerpt != "Await in parallel. Never block the loop." {
		t.Errorf("excerpt: got %q", a.Excerpt)
	}
	if a.Filename() != "use-asyncawait-correctly.md" {
		t.Errorf("filename: got %q", a.Filename())
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	a := buildFixture(t)

	out, err := a.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("expected front matter delimiter, got %q", out[:20])
	}

	back, err := Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if back.Title != a.Title {
		t.Errorf("title: %q != %q", back.Title, a.Title)
	}
	if back.Slug != a.Slug {
		t.Errorf("slug: %q != %q", back.Slug, a.Slug)
	}
	if back.Category != a.Category {
		t.Errorf("category: %q != %q", back.Category, a.Category)
	}
	if back.Excerpt != a.Excerpt {
		t.Errorf("excerpt: %q != %q", back.Excerpt, a.Excerpt)
	}
	if back.FullSection != a.FullSection {
		t.Errorf("full section: %q != %q", back.FullSection, a.FullSection)
	}
	if back.Content != a.Content {
		t.Errorf("content: %q != %q", back.Content, a.Content)
	}
}

func TestValidate(t *testing.T) {
	valid := buildFixture(t)

	tests := []struct {
		name    string
		mutate  func(*Article)
		wantErr bool
	}{
		{"valid", func(a *Article) {}, false},
		{"no title", func(a *Article) { a.Title = "  " }, true},
		{"empty slug", func(a *Article) { a.Slug = "" }, true},
		{"non-canonical slug", func(a *Article) { a.Slug = "Not A Slug!" }, true},
		{"no content", func(a *Article) { a.Content = "" }, true},
		{"oversized excerpt", func(a *Article) { a.Excerpt = strings.Repeat("x", 301) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			err := a.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuild_ExcerptBudget(t *testing.T) {
	long := "### Long\n\n" + strings.Repeat("A solid sentence about performance. ", 30) + "\n"
	sub, err := section.Find(long, "long")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	a, err := Build(sub, section.DefaultCategory, Options{ExcerptMaxChars: 100})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(a.Excerpt) > 100 {
		t.Errorf("excerpt exceeds budget: %d bytes", len(a.Excerpt))
	}
	if a.Category != section.DefaultCategory {
		t.Errorf("category: got %q", a.Category)
	}
}

func TestBuild_ExcerptBudgetAboveLimit(t *testing.T) {
	long := "### Long Technique\n\n" + strings.Repeat("A solid sentence about performance. ", 14) + "\n"
	sub, err := section.Find(long, "long technique")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	a, err := Build(sub, section.DefaultCategory, Options{ExcerptMaxChars: 500})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(a.Excerpt) > 300 {
		t.Errorf("excerpt exceeds publishable limit: %d bytes", len(a.Excerpt))
	}
	if err := a.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}
