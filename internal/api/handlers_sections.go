package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/ghostprep/ghostprep/internal/article"
	"github.com/ghostprep/ghostprep/internal/section"
	"github.com/ghostprep/ghostprep/internal/suggest"
)

const maxSuggestions = 5

// handleListSections enumerates every subsection title in document order.
func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadDocument()
	if err != nil {
		jsonError(w, "load master document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	titles := slices.Collect(section.Titles(doc))
	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": titles,
		"count":    len(titles),
	})
}

// handleFindSection extracts the first subsection matching the q parameter
// and returns it as a full article. A miss is a 404 with ranked suggestions,
// not a server fault.
func (s *Server) handleFindSection(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}

	doc, err := s.loadDocument()
	if err != nil {
		jsonError(w, "load master document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sub, err := section.Find(doc, term)
	if errors.Is(err, section.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":       "no section matches " + term,
			"suggestions": s.suggestions(doc, term),
		})
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	art, err := article.Build(sub, section.EnclosingCategory(doc, sub.Start), article.Options{ExcerptMaxChars: s.cfg.ExcerptMaxChars})
	if err != nil {
		jsonError(w, "build article: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

// handleSearchSections returns titles ranked by relevance, without
// extracting anything. Useful when the first-match rule of find is too blunt.
func (s *Server) handleSearchSections(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}

	doc, err := s.loadDocument()
	if err != nil {
		jsonError(w, "load master document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	results := s.suggestions(doc, term)
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

// suggestions ranks titles against term, best-effort: ranking failures only
// degrade the response, they never fail it.
func (s *Server) suggestions(doc, term string) []string {
	idx, err := suggest.NewTitleIndex(section.Titles(doc))
	if err != nil {
		s.log.Warn("title index build failed", "error", err)
		return []string{}
	}
	defer idx.Close()

	out, err := idx.Suggest(term, maxSuggestions)
	if err != nil {
		s.log.Warn("title search failed", "error", err)
		return []string{}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
