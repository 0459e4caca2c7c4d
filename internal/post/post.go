// Package post holds the immutable post index and the pure queries run
// against it: tag filtering, related-post selection and title search.
package post

import (
	"slices"
	"time"
)

// Post is a single blog post. Values handed out by an Index are copies;
// mutating them never changes the index.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags"`
	Body        string    `json:"-"`
	Image       *string   `json:"image,omitempty"`
	Description string    `json:"description,omitempty"`
	ReadingTime int       `json:"reading_time"`
	Headings    []Heading `json:"headings,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Source      string    `json:"source,omitempty"`
}

// Heading is one entry of a post's table of contents.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// HasImage reports whether the post carries a cover image.
func (p Post) HasImage() bool { return p.Image != nil && *p.Image != "" }

// ImageURL returns the image URL or "" when the post has none.
func (p Post) ImageURL() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}

// StringPtr is a helper for populating optional fields.
func StringPtr(s string) *string { return &s }

func (p Post) clone() Post {
	out := p
	out.Tags = slices.Clone(p.Tags)
	out.Headings = slices.Clone(p.Headings)
	if p.Image != nil {
		img := *p.Image
		out.Image = &img
	}
	return out
}

func clonePosts(in []Post) []Post {
	out := make([]Post, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}
	return out
}
