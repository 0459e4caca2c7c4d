package git

import (
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

// HeadTree returns the committed tree at HEAD, narrowed to subdir when set,
// together with the HEAD commit hash.
func HeadTree(repository *git.Repository, subdir string) (*object.Tree, string, error) {
	ref, err := repository.Head()
	if err != nil {
		return nil, "", pierrors.GitError("", err).WithContext("op", "head")
	}
	commit, err := repository.CommitObject(ref.Hash())
	if err != nil {
		return nil, "", pierrors.GitError("", err).WithContext("op", "commit")
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, "", pierrors.GitError("", err).WithContext("op", "tree")
	}

	subdir = strings.Trim(subdir, "/")
	if subdir != "" {
		tree, err = tree.Tree(subdir)
		if err != nil {
			return nil, "", pierrors.GitError("", err).WithContext("op", "subtree").WithContext("subdir", subdir)
		}
	}
	return tree, ref.Hash().String(), nil
}
