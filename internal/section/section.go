// Package section locates named subsections inside a heading-structured
// markdown document. It deliberately does not parse markdown: the master
// document convention is flat enough that ATX heading markers and horizontal
// rules fully describe section boundaries.
package section

import (
	"errors"
	"iter"
	"strings"
)

// Heading markers per the master document convention: ATX style, column 0.
// Level-2 headings group techniques into categories; level-3 headings name
// individual techniques.
const (
	categoryMarker   = "## "
	subsectionMarker = "### "
)

// DefaultCategory labels subsections with no preceding category heading.
const DefaultCategory = "Uncategorized"

// ErrNotFound reports that no subsection title matched the search term.
// It is a normal negative result, not a fault.
var ErrNotFound = errors.New("no matching subsection")

// Subsection is one level-3 titled block, located by byte offsets into the
// document it was extracted from.
type Subsection struct {
	Title        string // heading text, marker stripped and trimmed
	Body         string // text between the heading line and the section boundary
	Start        int    // offset of the heading line
	ContentStart int    // offset of the first body byte, blank padding skipped
	End          int    // boundary offset (start of the terminating line, or len(document))
	FullSection  string // heading line + blank line + body
}

// Find returns the first subsection whose title matches term.
//
// Matching is case-insensitive and bidirectional: the title may contain the
// term, or the term may contain the title. The first matching heading in
// document order wins; there is no ranking by match quality. An empty term
// never matches.
func Find(document, term string) (Subsection, error) {
	want := strings.ToLower(strings.TrimSpace(term))
	if want == "" {
		return Subsection{}, ErrNotFound
	}
	for sub := range All(document) {
		title := strings.ToLower(sub.Title)
		if strings.Contains(title, want) || strings.Contains(want, title) {
			return sub, nil
		}
	}
	return Subsection{}, ErrNotFound
}

// All yields every subsection in document order, boundaries resolved.
func All(document string) iter.Seq[Subsection] {
	return func(yield func(Subsection) bool) {
		for start, line := range lines(document) {
			if !strings.HasPrefix(line, subsectionMarker) {
				continue
			}
			if !yield(extract(document, start, line)) {
				return
			}
		}
	}
}

// Titles yields every subsection title in document order. Unlike All it does
// no boundary work, so listing a large document stays cheap.
func Titles(document string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines(document) {
			if strings.HasPrefix(line, subsectionMarker) {
				if !yield(strings.TrimSpace(line[len(subsectionMarker):])) {
					return
				}
			}
		}
	}
}

// EnclosingCategory returns the text of the closest level-2 heading located
// strictly before offset, or DefaultCategory when none precedes it.
func EnclosingCategory(document string, offset int) string {
	category := DefaultCategory
	for start, line := range lines(document) {
		if start >= offset {
			break
		}
		if strings.HasPrefix(line, categoryMarker) {
			category = strings.TrimSpace(line[len(categoryMarker):])
		}
	}
	return category
}

// extract builds the Subsection for the heading line beginning at start.
func extract(document string, start int, headingLine string) Subsection {
	title := strings.TrimSpace(headingLine[len(subsectionMarker):])

	// Body starts after the heading line, skipping blank padding so the
	// extracted text never opens with stray newlines or spaces.
	contentStart := start + len(headingLine)
	for contentStart < len(document) {
		switch document[contentStart] {
		case '\n', '\r', ' ', '\t':
			contentStart++
			continue
		}
		break
	}

	end := boundary(document, contentStart)
	body := strings.TrimRight(document[contentStart:end], " \t\r\n")

	return Subsection{
		Title:        title,
		Body:         body,
		Start:        start,
		ContentStart: contentStart,
		End:          end,
		FullSection:  strings.TrimRight(headingLine, "\r") + "\n\n" + body,
	}
}

// boundary returns the offset of the first line at or after from that
// terminates a section: a horizontal rule or the next category heading.
// With neither present the section runs to the end of the document.
func boundary(document string, from int) int {
	for off, line := range lines(document[from:]) {
		if isRule(line) || strings.HasPrefix(line, categoryMarker) {
			return from + off
		}
	}
	return len(document)
}

// isRule reports whether line is a horizontal rule: three or more hyphens
// alone on the line. Other rule spellings (***, ___) are not section
// terminators in the master document convention.
func isRule(line string) bool {
	t := strings.TrimSpace(line)
	if len(t) < 3 {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] != '-' {
			return false
		}
	}
	return true
}

// lines yields each line of s (without its newline) keyed by starting offset.
func lines(s string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		off := 0
		for {
			nl := strings.IndexByte(s[off:], '\n')
			if nl < 0 {
				yield(off, s[off:])
				return
			}
			if !yield(off, s[off:off+nl]) {
				return
			}
			off += nl + 1
		}
	}
}
