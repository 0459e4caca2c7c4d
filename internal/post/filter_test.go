package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

func TestFilterByTag_Scenario(t *testing.T) {
	idx := scenarioIndex(t)

	assert.Equal(t, []string{"4"}, ids(FilterByTag(idx, "rust")))
	assert.Equal(t, []string{"1", "2"}, ids(FilterByTag(idx, "go")))
	assert.Equal(t, []string{"1", "3"}, ids(FilterByTag(idx, "web")))
}

func TestFilterByTag_EmptyAndUnknown(t *testing.T) {
	idx := scenarioIndex(t)

	for _, q := range []string{"", "   ", "#", "python"} {
		got := FilterByTag(idx, q)
		assert.NotNil(t, got, "query %q", q)
		assert.Empty(t, got, "query %q", q)
	}
	assert.Empty(t, FilterByTag(nil, "go"))
}

func TestFilterByTag_CaseAndMarkerInsensitive(t *testing.T) {
	idx, err := NewIndex([]Post{
		{ID: "a", Date: day(2), Tags: []string{"#Go"}},
		{ID: "b", Date: day(1), Tags: []string{"GO"}},
	})
	require.NoError(t, err)

	assert.Equal(t, FilterByTag(idx, "go"), FilterByTag(idx, "#Go"))
	assert.Equal(t, []string{"a", "b"}, ids(FilterByTag(idx, "#GO")))
}

func TestFilterByTag_Deterministic(t *testing.T) {
	idx := scenarioIndex(t)
	for i := 0; i < 5; i++ {
		assert.Equal(t, FilterByTag(idx, "web"), FilterByTag(idx, "web"))
	}
}

func TestFilterByTagE_NilIndex(t *testing.T) {
	_, err := FilterByTagE(nil, "go")
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryValidation))

	got, err := FilterByTagE(scenarioIndex(t), "rust")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
