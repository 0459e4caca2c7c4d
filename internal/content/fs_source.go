package content

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

// FSSource reads Markdown/MDX files below a root directory of an afero.Fs.
type FSSource struct {
	fs      afero.Fs
	root    string
	matcher *Matcher
}

// NewFSSource returns a source over root on fsys. A nil matcher reads every
// file with a default extension.
func NewFSSource(fsys afero.Fs, root string, matcher *Matcher) *FSSource {
	if matcher == nil {
		matcher, _ = NewMatcher(nil, nil, nil)
	}
	return &FSSource{fs: fsys, root: filepath.Clean(root), matcher: matcher}
}

// Name implements Source.
func (s *FSSource) Name() string { return "fs:" + s.root }

// Root is the directory the source reads from.
func (s *FSSource) Root() string { return s.root }

// Records walks the root in lexical order.
func (s *FSSource) Records(ctx context.Context) ([]Record, error) {
	info, err := s.fs.Stat(s.root)
	if err != nil {
		return nil, pierrors.FileSystemError("stat content dir", err).WithContext("path", s.root)
	}
	if !info.IsDir() {
		return nil, pierrors.FileSystemError("stat content dir", fs.ErrInvalid).WithContext("path", s.root)
	}

	var paths []string
	err = afero.Walk(s.fs, s.root, func(p string, fi fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if fi.IsDir() {
			if p != s.root && isHidden(fi.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if isHidden(fi.Name()) || !s.matcher.Match(rel) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pierrors.FileSystemError("walk content dir", err).WithContext("path", s.root)
	}
	sort.Strings(paths)

	records := make([]Record, 0, len(paths))
	for _, p := range paths {
		rel, _ := filepath.Rel(s.root, p)
		rel = filepath.ToSlash(rel)
		data, err := afero.ReadFile(s.fs, p)
		if err != nil {
			records = append(records, Record{Key: keyFromPath(rel), Path: rel, Err: err})
			continue
		}
		records = append(records, parseDocument(rel, data))
	}
	return records, nil
}

func isHidden(name string) bool {
	return len(name) > 0 && (name[0] == '.' || name[0] == '_')
}
