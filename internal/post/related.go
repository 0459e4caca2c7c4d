package post

import (
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/util/sets"
)

const (
	// DefaultRelatedMaxTags is how many of the source post's tags are consulted.
	DefaultRelatedMaxTags = 3
	// DefaultRelatedMaxResults caps the number of related posts returned.
	DefaultRelatedMaxResults = 3
)

type relatedConfig struct {
	maxTags    int
	maxResults int
}

// RelatedOption tunes SelectRelated.
type RelatedOption func(*relatedConfig)

// WithMaxTags sets how many leading tags of the source post are used.
func WithMaxTags(n int) RelatedOption {
	return func(c *relatedConfig) { c.maxTags = n }
}

// WithMaxResults caps the result length.
func WithMaxResults(n int) RelatedOption {
	return func(c *relatedConfig) { c.maxResults = n }
}

// SelectRelated suggests posts sharing a tag with source.
//
// Only the first maxTags tags of source are consulted, in their original
// order; this is not a relevance ranking. Candidates from each tag are
// appended in index order and a post already collected keeps the position
// given by the earlier tag. The source post itself is dropped (matched by
// ID) and the result is cut to maxResults.
func SelectRelated(idx *Index, source Post, opts ...RelatedOption) []Post {
	cfg := relatedConfig{maxTags: DefaultRelatedMaxTags, maxResults: DefaultRelatedMaxResults}
	for _, opt := range opts {
		opt(&cfg)
	}
	if idx == nil || cfg.maxTags <= 0 || cfg.maxResults <= 0 || len(source.Tags) == 0 {
		return []Post{}
	}

	tags := source.Tags
	if len(tags) > cfg.maxTags {
		tags = tags[:cfg.maxTags]
	}

	candidates := sets.NewOrdered(func(p Post) string { return p.ID })
	for _, tag := range tags {
		for _, p := range FilterByTag(idx, tag) {
			if p.ID == source.ID {
				continue
			}
			candidates.Insert(p)
		}
		if candidates.Len() >= cfg.maxResults {
			break
		}
	}

	out := candidates.Values()
	if len(out) > cfg.maxResults {
		out = out[:cfg.maxResults]
	}
	return out
}

// SelectRelatedByID resolves id in idx and selects posts related to it.
func SelectRelatedByID(idx *Index, id string, opts ...RelatedOption) ([]Post, error) {
	if idx == nil {
		return nil, pierrors.InvalidArgument("index", "nil index")
	}
	if id == "" {
		return nil, pierrors.InvalidArgument("id", "empty id")
	}
	src, ok := idx.Get(id)
	if !ok {
		return nil, pierrors.NotFound("post", id)
	}
	return SelectRelated(idx, src, opts...), nil
}
