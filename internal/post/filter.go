package post

import (
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

// FilterByTag returns every post carrying tag, in index order.
//
// The query is normalized like post tags ("#Go" matches "go"). A blank
// query, a query that matches nothing, or a nil index yields an empty slice.
func FilterByTag(idx *Index, tag string) []Post {
	if idx == nil {
		return []Post{}
	}
	t := NormalizeTag(tag)
	if t == "" {
		return []Post{}
	}
	positions := idx.positionsForTag(t)
	out := make([]Post, 0, len(positions))
	for _, i := range positions {
		out = append(out, idx.posts[i].clone())
	}
	return out
}

// FilterByTagE is FilterByTag for callers at an API boundary that want a nil
// index reported instead of silently answered with no posts.
func FilterByTagE(idx *Index, tag string) ([]Post, error) {
	if idx == nil {
		return nil, pierrors.InvalidArgument("index", "nil index")
	}
	return FilterByTag(idx, tag), nil
}
