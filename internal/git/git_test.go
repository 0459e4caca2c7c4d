package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postindex/internal/config"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

func initRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddGlob("."))
	_, err = wt.Commit("posts", &git.CommitOptions{Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}})
	require.NoError(t, err)
	return dir
}

func TestSync_OpensLocalRepository(t *testing.T) {
	dir := initRepo(t, map[string]string{"posts/a.md": "a", "README.md": "readme"})

	repo, err := NewClient(config.GitConfig{Path: dir}).Sync(context.Background())
	require.NoError(t, err)

	tree, hash, err := HeadTree(repo, "posts")
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	f, err := tree.File("a.md")
	require.NoError(t, err)
	content, err := f.Contents()
	require.NoError(t, err)
	assert.Equal(t, "a", content)

	_, err = tree.File("README.md")
	assert.Error(t, err)
}

func TestSync_MissingRepositoryWithoutURL(t *testing.T) {
	_, err := NewClient(config.GitConfig{Path: t.TempDir()}).Sync(context.Background())
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryGit))
	assert.False(t, pierrors.IsRetryable(err))
}

func TestHeadTree_MissingSubdir(t *testing.T) {
	dir := initRepo(t, map[string]string{"a.md": "a"})
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	_, _, err = HeadTree(repo, "posts")
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryGit))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		msg       string
		retryable bool
	}{
		{"authentication required", false},
		{"repository not found", false},
		{"dial tcp: i/o timeout", true},
		{"connection refused", true},
		{"429 too many requests", true},
		{"something odd", false},
	}
	for _, c := range cases {
		err := classify("fetch", "https://example.com/blog.git", errors.New(c.msg))
		assert.True(t, pierrors.IsCategory(err, pierrors.CategoryGit), c.msg)
		assert.Equal(t, c.retryable, pierrors.IsRetryable(err), c.msg)
	}
	assert.NoError(t, classify("fetch", "x", nil))
}

func TestTokenAuth(t *testing.T) {
	assert.Nil(t, tokenAuth(""))

	auth, ok := tokenAuth("s3cret").(*http.BasicAuth)
	require.True(t, ok)
	assert.Equal(t, "token", auth.Username)
	assert.Equal(t, "s3cret", auth.Password)
}
