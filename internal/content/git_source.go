package content

import (
	"context"
	"io"
	"sort"

	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/postindex/internal/config"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	pigit "git.home.luguber.info/inful/postindex/internal/git"
)

// GitSource reads posts committed to a git repository. Uncommitted files in
// the work tree are ignored.
type GitSource struct {
	cfg     config.GitConfig
	client  *pigit.Client
	matcher *Matcher

	lastCommit string
}

// NewGitSource returns a source for the repository described by cfg.
func NewGitSource(cfg config.GitConfig, matcher *Matcher) *GitSource {
	if matcher == nil {
		matcher, _ = NewMatcher(nil, nil, nil)
	}
	return &GitSource{cfg: cfg, client: pigit.NewClient(cfg), matcher: matcher}
}

// Name implements Source.
func (s *GitSource) Name() string {
	if s.cfg.URL != "" {
		return "git:" + s.cfg.URL
	}
	return "git:" + s.cfg.Path
}

// LastCommit is the HEAD hash seen by the most recent Records call.
func (s *GitSource) LastCommit() string { return s.lastCommit }

// Records syncs the repository and reads matching files from HEAD.
func (s *GitSource) Records(ctx context.Context) ([]Record, error) {
	repo, err := s.client.Sync(ctx)
	if err != nil {
		return nil, err
	}
	tree, commit, err := pigit.HeadTree(repo, s.cfg.Subdir)
	if err != nil {
		return nil, err
	}
	s.lastCommit = commit

	var records []Record
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.matcher.Match(f.Name) || hasHiddenSegment(f.Name) {
			return nil
		}
		r, err := f.Reader()
		if err != nil {
			records = append(records, Record{Key: keyFromPath(f.Name), Path: f.Name, Err: err})
			return nil
		}
		data, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			records = append(records, Record{Key: keyFromPath(f.Name), Path: f.Name, Err: err})
			return nil
		}
		records = append(records, parseDocument(f.Name, data))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pierrors.GitError(s.Name(), err).WithContext("op", "read tree")
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

func hasHiddenSegment(rel string) bool {
	start := 0
	for i := 0; i <= len(rel); i++ {
		if i == len(rel) || rel[i] == '/' {
			if isHidden(rel[start:i]) {
				return true
			}
			start = i + 1
		}
	}
	return false
}
