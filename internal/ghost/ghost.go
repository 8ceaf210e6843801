// Package ghost builds the JSON document Ghost's importer consumes
// (Labs → Import). Talking to the Admin API directly is out of scope; the
// file-based import format covers the publishing hand-off without any
// network dependency.
package ghost

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ghostprep/ghostprep/internal/article"
	"github.com/ghostprep/ghostprep/internal/slug"
)

// Version is the Ghost schema version stamped into import metadata.
const Version = "5.0"

// Document is the top-level import payload.
type Document struct {
	DB []Database `json:"db"`
}

type Database struct {
	Meta Meta `json:"meta"`
	Data Data `json:"data"`
}

type Meta struct {
	ExportedOn int64  `json:"exported_on"` // unix milliseconds
	Version    string `json:"version"`
}

type Data struct {
	Posts     []Post    `json:"posts"`
	Tags      []Tag     `json:"tags"`
	PostsTags []PostTag `json:"posts_tags"`
}

// Post is one article in Ghost's import schema. Content is supplied as HTML;
// the importer converts it to the editor format on ingest.
type Post struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	HTML          string `json:"html"`
	Status        string `json:"status"`
	CustomExcerpt string `json:"custom_excerpt,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PostTag struct {
	PostID int `json:"post_id"`
	TagID  int `json:"tag_id"`
}

// BuildImport assembles an import document from articles. Category tags are
// deduplicated by slug; every post is linked to its category tag.
func BuildImport(articles []article.Article, now time.Time) Document {
	ts := now.UnixMilli()

	data := Data{
		Posts:     make([]Post, 0, len(articles)),
		Tags:      []Tag{},
		PostsTags: []PostTag{},
	}
	tagIDs := make(map[string]int)

	for i, a := range articles {
		postID := i + 1
		data.Posts = append(data.Posts, Post{
			ID:            postID,
			Title:         a.Title,
			Slug:          a.Slug,
			HTML:          a.HTML,
			Status:        "draft",
			CustomExcerpt: a.Excerpt,
			CreatedAt:     ts,
			UpdatedAt:     ts,
		})

		if a.Category == "" {
			continue
		}
		tagSlug := slug.Slugify(a.Category)
		id, ok := tagIDs[tagSlug]
		if !ok {
			id = len(data.Tags) + 1
			tagIDs[tagSlug] = id
			data.Tags = append(data.Tags, Tag{ID: id, Name: a.Category, Slug: tagSlug})
		}
		data.PostsTags = append(data.PostsTags, PostTag{PostID: postID, TagID: id})
	}

	return Document{
		DB: []Database{{
			Meta: Meta{ExportedOn: ts, Version: Version},
			Data: data,
		}},
	}
}

// WriteImport encodes the document as indented JSON.
func WriteImport(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode ghost import: %w", err)
	}
	return nil
}
