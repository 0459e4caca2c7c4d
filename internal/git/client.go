package git

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/postindex/internal/config"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/logfields"
)

// Client manages one local repository described by a GitConfig.
type Client struct {
	cfg config.GitConfig
}

// NewClient returns a client for cfg.
func NewClient(cfg config.GitConfig) *Client {
	return &Client{cfg: cfg}
}

// Sync makes the local repository current and returns it.
//
// Without a URL the repository at cfg.Path is opened as is. With a URL it is
// cloned when missing, otherwise fetched and hard reset to the remote branch.
func (c *Client) Sync(ctx context.Context) (*git.Repository, error) {
	if _, err := os.Stat(filepath.Join(c.cfg.Path, ".git")); err != nil {
		if c.cfg.URL == "" {
			return nil, pierrors.GitError(c.cfg.Path, err).WithContext("reason", "no repository and no url to clone")
		}
		return c.clone(ctx)
	}

	repository, err := git.PlainOpen(c.cfg.Path)
	if err != nil {
		return nil, pierrors.GitError(c.cfg.Path, err).WithContext("op", "open")
	}
	if c.cfg.URL == "" {
		return repository, nil
	}
	if err := c.update(ctx, repository); err != nil {
		return nil, err
	}
	return repository, nil
}

func (c *Client) clone(ctx context.Context) (*git.Repository, error) {
	opts := &git.CloneOptions{
		URL:          c.cfg.URL,
		Auth:         tokenAuth(c.cfg.Token),
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if c.cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.cfg.Branch)
	}

	repository, err := git.PlainCloneContext(ctx, c.cfg.Path, false, opts)
	if err != nil {
		return nil, classify("clone", c.cfg.URL, err)
	}
	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned", logfields.URL(c.cfg.URL), logfields.Path(c.cfg.Path), slog.String("commit", shortHash(ref.Hash())))
	}
	return repository, nil
}

func (c *Client) update(ctx context.Context, repository *git.Repository) error {
	branch := c.cfg.Branch
	if branch == "" {
		branch = "main"
	}

	err := repository.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		Auth:       tokenAuth(c.cfg.Token),
		Depth:      1,
		Tags:       git.NoTags,
		RefSpecs:   []ggitcfg.RefSpec{ggitcfg.RefSpec("+refs/heads/" + branch + ":refs/remotes/origin/" + branch)},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return classify("fetch", c.cfg.URL, err)
	}

	remoteRef, err := repository.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return pierrors.GitError(c.cfg.URL, err).WithContext("op", "resolve").WithContext("branch", branch)
	}
	head, _ := repository.Head()
	if head != nil && head.Hash() == remoteRef.Hash() {
		return nil
	}

	wt, err := repository.Worktree()
	if err != nil {
		return pierrors.GitError(c.cfg.Path, err).WithContext("op", "worktree")
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return pierrors.GitError(c.cfg.Path, err).WithContext("op", "reset")
	}
	slog.Info("Repository updated", logfields.URL(c.cfg.URL), slog.String("branch", branch), slog.String("commit", shortHash(remoteRef.Hash())))
	return nil
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:8]
}
