package post

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TagMarker is the optional leading character on tags ("#go").
const TagMarker = "#"

// NormalizeTag lower-cases a tag and strips one leading marker so that
// "#Go", "go" and " GO " compare equal. It returns "" for blank input.
func NormalizeTag(tag string) string {
	t := strings.TrimSpace(tag)
	t = strings.TrimPrefix(t, TagMarker)
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	// A Caser is stateful, so each call gets its own.
	return cases.Lower(language.Und).String(t)
}

// TagsEqual reports whether two tags are equal after normalization.
func TagsEqual(a, b string) bool {
	na := NormalizeTag(a)
	return na != "" && na == NormalizeTag(b)
}

// TagCount is a normalized tag with the number of posts carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
