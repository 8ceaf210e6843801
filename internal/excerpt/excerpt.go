// Package excerpt derives a short teaser from plain article text.
package excerpt

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars matches Ghost's custom_excerpt length limit.
const DefaultMaxChars = 300

const ellipsis = "..."

// Build returns at most maxChars bytes of text, preferring whole sentences.
// When even the first sentence overflows, the text is cut at a word boundary
// and an ellipsis appended.
func Build(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxChars {
		return text
	}

	var b strings.Builder
	for _, sentence := range splitSentences(text) {
		add := len(sentence)
		if b.Len() > 0 {
			add++
		}
		if b.Len()+add > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
	}
	if b.Len() > 0 {
		return b.String()
	}

	// First sentence alone overflows: fall back to a word-boundary cut.
	limit := maxChars - len(ellipsis)
	words := strings.Fields(text)
	for _, w := range words {
		add := len(w)
		if b.Len() > 0 {
			add++
		}
		if b.Len()+add > limit {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	if b.Len() > 0 {
		return b.String() + ellipsis
	}

	// Single word longer than the budget: hard cut on a rune boundary.
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + ellipsis
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}
