// Package source loads a master document from disk and normalizes it to
// heading-marked markdown text, whatever format it was authored in.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFilename is the well-known master document name resolved relative
// to the invocation directory when no explicit path is given.
const DefaultFilename = "techniques.md"

// Loader converts one on-disk format into markdown text using the
// level-2/level-3 heading convention.
type Loader interface {
	Load(r io.Reader) (string, error)
}

// SupportedExtensions lists master document formats this tool can read.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the loader for a filename, by extension.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupported checks if a filename has a supported extension.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Read opens path and returns its content as normalized markdown text.
func Read(path string) (string, error) {
	loader, err := ForFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open master document: %w", err)
	}
	defer f.Close()

	doc, err := loader.Load(f)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// MarkdownLoader passes markdown through untouched apart from line-ending
// normalization.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return normalizeNewlines(string(b)), nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// headingLine renders a heading at the given level as an ATX markdown line.
func headingLine(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}
