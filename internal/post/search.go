package post

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DefaultMinQueryLength is the shortest title query that narrows results.
const DefaultMinQueryLength = 4

// SearchTitle returns posts whose title contains query, ignoring case.
// Queries shorter than minLen runes do not filter and return every post.
func SearchTitle(idx *Index, query string, minLen int) []Post {
	if idx == nil {
		return []Post{}
	}
	q := strings.TrimSpace(query)
	if q == "" || utf8.RuneCountInString(q) < minLen {
		return idx.Posts()
	}

	fold := cases.Fold()
	needle := fold.String(q)
	out := make([]Post, 0)
	for _, p := range idx.posts {
		fold.Reset()
		if strings.Contains(fold.String(p.Title), needle) {
			out = append(out, p.clone())
		}
	}
	return out
}
