// Package suggest ranks subsection titles against a search phrase. The
// extractor's first-match contract is never affected: suggestions only feed
// "did you mean" output and the API's search endpoint.
package suggest

import (
	"fmt"
	"iter"

	"github.com/blevesearch/bleve/v2"
)

type titleDoc struct {
	Title string `json:"title"`
}

// TitleIndex is an in-memory full-text index over subsection titles.
type TitleIndex struct {
	idx bleve.Index
}

// NewTitleIndex indexes every title from the sequence.
func NewTitleIndex(titles iter.Seq[string]) (*TitleIndex, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create title index: %w", err)
	}

	n := 0
	for title := range titles {
		if err := idx.Index(fmt.Sprintf("%d", n), titleDoc{Title: title}); err != nil {
			idx.Close()
			return nil, fmt.Errorf("index title %q: %w", title, err)
		}
		n++
	}

	return &TitleIndex{idx: idx}, nil
}

// Suggest returns up to n titles ranked by relevance to term. A fuzziness of
// one edit absorbs small typos in the search phrase.
func (t *TitleIndex) Suggest(term string, n int) ([]string, error) {
	if n <= 0 {
		n = 5
	}
	q := bleve.NewMatchQuery(term)
	q.SetField("title")
	q.SetFuzziness(1)

	req := bleve.NewSearchRequest(q)
	req.Size = n
	req.Fields = []string{"title"}

	res, err := t.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}

	out := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if title, ok := hit.Fields["title"].(string); ok {
			out = append(out, title)
		}
	}
	return out, nil
}

// DocCount returns the number of indexed titles.
func (t *TitleIndex) DocCount() (uint64, error) {
	return t.idx.DocCount()
}

// Close releases the index.
func (t *TitleIndex) Close() error {
	return t.idx.Close()
}
