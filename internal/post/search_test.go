package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTitle(t *testing.T) {
	idx, err := NewIndex([]Post{
		{ID: "a", Title: "Building a Blog in Go", Date: day(3)},
		{ID: "b", Title: "Go Concurrency Patterns", Date: day(2)},
		{ID: "c", Title: "Rust for Gophers", Date: day(1)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, ids(SearchTitle(idx, "CONCURRENCY", DefaultMinQueryLength)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(SearchTitle(idx, "go", DefaultMinQueryLength)), "short query does not filter")
	assert.Equal(t, []string{"a", "b", "c"}, ids(SearchTitle(idx, "  ", DefaultMinQueryLength)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(SearchTitle(idx, "go", 1)), "matches inside words")
	assert.Equal(t, []string{"c"}, ids(SearchTitle(idx, "GOPHER", DefaultMinQueryLength)))
	assert.Empty(t, SearchTitle(idx, "haskell", DefaultMinQueryLength))
	assert.Empty(t, SearchTitle(nil, "anything", 0))
}
