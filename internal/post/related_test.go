package post

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

func TestSelectRelated_Scenario(t *testing.T) {
	idx := scenarioIndex(t)
	a, _ := idx.Get("1")

	got := SelectRelated(idx, a, WithMaxResults(3))
	assert.Equal(t, []string{"2", "3"}, ids(got))
}

func TestSelectRelated_EmptyTags(t *testing.T) {
	idx := scenarioIndex(t)
	got := SelectRelated(idx, Post{ID: "lonely"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectRelated_FirstTagOrderWins(t *testing.T) {
	// "shared" appears under both tags; it must keep the slot the first tag gave it.
	idx, err := NewIndex([]Post{
		{ID: "src", Date: day(9), Tags: []string{"web", "go"}},
		{ID: "go-only", Date: day(8), Tags: []string{"go"}},
		{ID: "shared", Date: day(2), Tags: []string{"go", "web"}},
		{ID: "web-only", Date: day(1), Tags: []string{"web"}},
	})
	require.NoError(t, err)
	src, _ := idx.Get("src")

	got := SelectRelated(idx, src, WithMaxResults(10))
	assert.Equal(t, []string{"shared", "web-only", "go-only"}, ids(got))
}

func TestSelectRelated_FirstNTagsOnly(t *testing.T) {
	idx, err := NewIndex([]Post{
		{ID: "src", Date: day(9), Tags: []string{"a", "b", "c", "d"}},
		{ID: "via-d", Date: day(8), Tags: []string{"d"}},
		{ID: "via-c", Date: day(7), Tags: []string{"c"}},
	})
	require.NoError(t, err)
	src, _ := idx.Get("src")

	assert.Equal(t, []string{"via-c"}, ids(SelectRelated(idx, src)))
	assert.Equal(t, []string{"via-c", "via-d"}, ids(SelectRelated(idx, src, WithMaxTags(4))))
	assert.Empty(t, SelectRelated(idx, src, WithMaxTags(0)))
}

func TestSelectRelated_TruncatesAndNoPadding(t *testing.T) {
	posts := []Post{{ID: "src", Date: day(28), Tags: []string{"go"}}}
	for i := 1; i <= 6; i++ {
		posts = append(posts, Post{ID: fmt.Sprintf("p%d", i), Date: day(i), Tags: []string{"go"}})
	}
	idx, err := NewIndex(posts)
	require.NoError(t, err)
	src, _ := idx.Get("src")

	assert.Equal(t, []string{"p6", "p5", "p4"}, ids(SelectRelated(idx, src)))
	assert.Len(t, SelectRelated(idx, src, WithMaxResults(100)), 6)
	assert.Empty(t, SelectRelated(idx, src, WithMaxResults(0)))
}

func TestSelectRelated_Properties(t *testing.T) {
	idx, err := NewIndex([]Post{
		{ID: "a", Date: day(1), Tags: []string{"go", "web", "go"}},
		{ID: "b", Date: day(2), Tags: []string{"#Go", "db"}},
		{ID: "c", Date: day(3), Tags: []string{"web", "db", "go"}},
		{ID: "d", Date: day(4), Tags: []string{"db"}},
		{ID: "e", Date: day(5), Tags: nil},
		{ID: "f", Date: day(6), Tags: []string{"WEB"}},
	})
	require.NoError(t, err)

	for _, maxResults := range []int{1, 2, 3, 5} {
		for _, p := range idx.Posts() {
			got := SelectRelated(idx, p, WithMaxResults(maxResults))
			assert.LessOrEqual(t, len(got), maxResults)

			seen := map[string]bool{}
			for _, r := range got {
				assert.NotEqual(t, p.ID, r.ID, "source %s returned itself", p.ID)
				assert.False(t, seen[r.ID], "duplicate %s for source %s", r.ID, p.ID)
				seen[r.ID] = true
			}
		}
	}
}

func TestSelectRelated_UnknownTagContributesNothing(t *testing.T) {
	idx := scenarioIndex(t)
	src := Post{ID: "new", Tags: []string{"elixir", "rust"}}
	assert.Equal(t, []string{"4"}, ids(SelectRelated(idx, src)))
}

func TestSelectRelatedByID(t *testing.T) {
	idx := scenarioIndex(t)

	got, err := SelectRelatedByID(idx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, ids(got))

	_, err = SelectRelatedByID(idx, "nope")
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryNotFound))

	_, err = SelectRelatedByID(nil, "1")
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryValidation))

	_, err = SelectRelatedByID(idx, "")
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryValidation))
}
