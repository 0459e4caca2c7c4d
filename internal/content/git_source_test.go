package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postindex/internal/config"
)

func commitFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	if err != nil {
		repo, err = git.PlainInit(dir, false)
		require.NoError(t, err)
	}
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("update posts", &git.CommitOptions{Author: &object.Signature{Name: "test", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
}

func TestGitSource_ReadsCommittedPosts(t *testing.T) {
	dir := t.TempDir()
	commitFiles(t, dir, map[string]string{
		"posts/a.md":      doc("", "A", "2024-01-01", "[go]", "a"),
		"posts/b.md":      doc("", "B", "2024-01-02", "[web]", "b"),
		"posts/.wip/c.md": doc("", "C", "2024-01-03", "[go]", "c"),
		"README.md":       "# repo",
	})
	// Uncommitted work is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "draft.md"), []byte(doc("", "D", "2024-01-04", "[go]", "")), 0o600))

	src := NewGitSource(config.GitConfig{Path: dir, Subdir: "posts"}, nil)
	recs, err := src.Records(context.Background())
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Key)
	assert.Equal(t, "b", recs[1].Key)
	assert.Len(t, src.LastCommit(), 40)
	assert.Equal(t, "git:"+dir, src.Name())
}

func TestGitSource_NoRepository(t *testing.T) {
	_, err := NewGitSource(config.GitConfig{Path: t.TempDir()}, nil).Records(context.Background())
	assert.Error(t, err)
}
