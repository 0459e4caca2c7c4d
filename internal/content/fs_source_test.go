package content

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

func TestFSSource_Records(t *testing.T) {
	fs := memFS(t, map[string]string{
		"b.md":                  doc("", "B", "2024-01-02", "[go]", "b"),
		"a.mdx":                 doc("", "A", "2024-01-01", "[go]", "a"),
		"bundle/index.md":       doc("", "Bundle", "2024-01-03", "[go]", "x"),
		"notes.txt":             "ignored",
		".hidden/secret.md":     doc("", "S", "2024-01-01", "[go]", "s"),
		"_drafts/unfinished.md": doc("", "U", "2024-01-01", "[go]", "u"),
	})

	src := NewFSSource(fs, "/content", nil)
	assert.Equal(t, "fs:/content", src.Name())

	recs, err := src.Records(context.Background())
	require.NoError(t, err)

	keys := make([]string, 0, len(recs))
	for _, r := range recs {
		require.NoError(t, r.Err)
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"a", "b", "bundle"}, keys)
	assert.Equal(t, "bundle/index.md", recs[2].Path)
}

func TestFSSource_Globs(t *testing.T) {
	fs := memFS(t, map[string]string{
		"posts/keep.md":        doc("", "K", "2024-01-01", "[go]", ""),
		"posts/drafts/skip.md": doc("", "S", "2024-01-01", "[go]", ""),
		"pages/about.md":       doc("", "A", "2024-01-01", "[go]", ""),
	})
	m, err := NewMatcher([]string{"posts/**"}, []string{"**/drafts/**"}, nil)
	require.NoError(t, err)

	recs, err := NewFSSource(fs, "/content", m).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "keep", recs[0].Key)
}

func TestFSSource_MalformedFileIsRecordError(t *testing.T) {
	fs := memFS(t, map[string]string{"bad.md": "---\ntitle: x\n"})

	recs, err := NewFSSource(fs, "/content", nil).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Error(t, recs[0].Err)
}

func TestFSSource_MissingRoot(t *testing.T) {
	_, err := NewFSSource(afero.NewMemMapFs(), "/nope", nil).Records(context.Background())
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryFileSystem))
}

func TestFSSource_Cancelled(t *testing.T) {
	fs := memFS(t, map[string]string{"a.md": doc("", "A", "2024-01-01", "[go]", "")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFSSource(fs, "/content", nil).Records(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
