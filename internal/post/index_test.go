package post

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

func TestNewIndex_OrdersNewestFirstThenByID(t *testing.T) {
	idx, err := NewIndex([]Post{
		{ID: "old", Date: day(1)},
		{ID: "b-same", Date: day(5)},
		{ID: "a-same", Date: day(5)},
		{ID: "new", Date: day(9)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"new", "a-same", "b-same", "old"}, ids(idx.Posts()))
	assert.Equal(t, 4, idx.Len())
}

func TestNewIndex_RejectsDuplicateAndEmptyIDs(t *testing.T) {
	_, err := NewIndex([]Post{{ID: "x", Date: day(1)}, {ID: "x", Date: day(2)}})
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryValidation))

	_, err = NewIndex([]Post{{ID: "  ", Title: "nameless"}})
	require.Error(t, err)
}

func TestIndex_IsImmutable(t *testing.T) {
	src := []Post{{ID: "a", Date: day(1), Tags: []string{"go"}}}
	idx, err := NewIndex(src)
	require.NoError(t, err)

	src[0].Tags[0] = "rust"
	posts := idx.Posts()
	posts[0].Title = "changed"
	posts[0].Tags[0] = "changed"

	got, ok := idx.Get("a")
	require.True(t, ok)
	assert.Equal(t, "", got.Title)
	assert.Equal(t, []string{"go"}, got.Tags)
	assert.Len(t, FilterByTag(idx, "go"), 1)
}

func TestIndex_Get(t *testing.T) {
	idx := scenarioIndex(t)

	p, ok := idx.Get("3")
	require.True(t, ok)
	assert.Equal(t, "C", p.Title)

	_, ok = idx.Get("missing")
	assert.False(t, ok)
}

func TestIndex_TagsCountsEachPostOnce(t *testing.T) {
	idx, err := NewIndex([]Post{
		{ID: "a", Date: day(1), Tags: []string{"Go", "#go", "web"}},
		{ID: "b", Date: day(2), Tags: []string{"go"}},
		{ID: "c", Date: day(3), Tags: []string{"gopher", "web"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []TagCount{{"go", 2}, {"web", 2}, {"gopher", 1}}, idx.Tags())
	assert.Equal(t, []TagCount{{"go", 2}, {"gopher", 1}}, idx.TagsWithPrefix("#GO"))
	assert.Empty(t, idx.TagsWithPrefix("rust"))
	assert.Len(t, idx.TagsWithPrefix(""), 3)
}

func TestIndex_SnapshotMetadata(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	idx, err := NewIndex(nil, WithSnapshotID("snap-1"), WithLoadedAt(at), WithSource("fs:content"))
	require.NoError(t, err)

	assert.Equal(t, "snap-1", idx.SnapshotID())
	assert.Equal(t, at, idx.LoadedAt())
	assert.Equal(t, "fs:content", idx.Source())
	assert.Equal(t, 0, idx.Len())

	generated, err := NewIndex(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, generated.SnapshotID())
}

func TestIndex_FingerprintIgnoresLoadOrder(t *testing.T) {
	a := Post{ID: "a", Title: "A", Date: day(1), Body: "alpha"}
	b := Post{ID: "b", Title: "B", Date: day(1), Body: "beta"}

	first, err := NewIndex([]Post{a, b})
	require.NoError(t, err)
	second, err := NewIndex([]Post{b, a})
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())

	b.Body = "beta, edited"
	third, err := NewIndex([]Post{a, b})
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint(), third.Fingerprint())
}

func TestIndex_NilReceiver(t *testing.T) {
	var idx *Index
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Posts())
	assert.Empty(t, idx.Tags())
	assert.Equal(t, "", idx.Fingerprint())
	assert.Equal(t, "", idx.SnapshotID())
	assert.Equal(t, "", idx.Source())
	assert.True(t, idx.LoadedAt().IsZero())
	_, ok := idx.Get("x")
	assert.False(t, ok)
}
