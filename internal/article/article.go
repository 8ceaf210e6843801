// Package article turns an extracted subsection into a publish-ready post:
// slug, category tag, excerpt, rendered HTML, and a front-mattered markdown
// file that the Ghost importer (or any static pipeline) can pick up.
package article

import (
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/ghostprep/ghostprep/internal/excerpt"
	"github.com/ghostprep/ghostprep/internal/render"
	"github.com/ghostprep/ghostprep/internal/section"
	"github.com/ghostprep/ghostprep/internal/slug"
)

// Article is one technique ready for publication.
type Article struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`      // section body, markdown
	FullSection string `json:"full_section"` // heading line + blank line + body
	HTML        string `json:"html"`         // rendered full section
}

// FrontMatter is the YAML header written to and read from article files.
type FrontMatter struct {
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Tags    []string `yaml:"tags"`
	Excerpt string   `yaml:"excerpt,omitempty"`
	Status  string   `yaml:"status"`
}

// Options controls article assembly.
type Options struct {
	ExcerptMaxChars int // 0 means excerpt.DefaultMaxChars; larger values are clamped to it
}

// Build assembles an Article from an extracted subsection and its category.
func Build(sub section.Subsection, category string, opts Options) (Article, error) {
	htmlFragment, err := render.HTML(sub.FullSection)
	if err != nil {
		return Article{}, fmt.Errorf("render section: %w", err)
	}

	bodyHTML, err := render.HTML(sub.Body)
	if err != nil {
		return Article{}, fmt.Errorf("render body: %w", err)
	}
	plain, err := render.PlainText(bodyHTML)
	if err != nil {
		return Article{}, fmt.Errorf("extract plain text: %w", err)
	}

	// Ghost rejects excerpts past the limit.
	budget := opts.ExcerptMaxChars
	if budget > excerpt.DefaultMaxChars {
		budget = excerpt.DefaultMaxChars
	}

	a := Article{
		Title:       sub.Title,
		Slug:        slug.Slugify(sub.Title),
		Category:    category,
		Excerpt:     excerpt.Build(plain, budget),
		Content:     sub.Body,
		FullSection: sub.FullSection,
		HTML:        htmlFragment,
	}
	if err := a.Validate(); err != nil {
		return Article{}, err
	}
	return a, nil
}

// Filename returns the derived output filename, the <slug>.md convention.
func (a Article) Filename() string {
	return a.Slug + ".md"
}

// Render produces the article file: YAML front matter followed by the full
// section markdown.
func (a Article) Render() (string, error) {
	fm := FrontMatter{
		Title:   a.Title,
		Slug:    a.Slug,
		Tags:    []string{a.Category},
		Excerpt: a.Excerpt,
		Status:  "draft",
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	return "---\n" + string(header) + "---\n\n" + a.FullSection + "\n", nil
}

// Parse reads an article file back: front matter into the returned Article,
// the remainder as content. Used by the verify mode to check previously
// exported files.
func Parse(r io.Reader) (Article, error) {
	var fm FrontMatter
	rest, err := frontmatter.Parse(r, &fm)
	if err != nil {
		return Article{}, fmt.Errorf("parse front matter: %w", err)
	}

	a := Article{
		Title:       fm.Title,
		Slug:        fm.Slug,
		Excerpt:     fm.Excerpt,
		FullSection: strings.TrimSpace(string(rest)),
	}
	if len(fm.Tags) > 0 {
		a.Category = fm.Tags[0]
	}
	if _, body, ok := strings.Cut(a.FullSection, "\n\n"); ok {
		a.Content = body
	}
	return a, nil
}

// Validate checks invariants every publishable article must hold.
func (a Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("article has no title")
	}
	if a.Slug == "" {
		return fmt.Errorf("article %q produced an empty slug", a.Title)
	}
	if a.Slug != slug.Slugify(a.Slug) {
		return fmt.Errorf("slug %q is not in canonical form", a.Slug)
	}
	if strings.TrimSpace(a.Content) == "" {
		return fmt.Errorf("article %q has no content", a.Title)
	}
	if len(a.Excerpt) > excerpt.DefaultMaxChars {
		return fmt.Errorf("excerpt for %q exceeds %d characters", a.Title, excerpt.DefaultMaxChars)
	}
	return nil
}
