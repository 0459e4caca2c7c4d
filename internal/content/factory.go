package content

import (
	"io"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/postindex/internal/config"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSource builds the source selected by cfg.Content.Source. The returned
// closer releases resources held by the source (the SQLite handle).
func NewSource(cfg *config.Config) (Source, io.Closer, error) {
	matcher, err := NewMatcher(cfg.Content.Include, cfg.Content.Exclude, cfg.Content.Extensions)
	if err != nil {
		return nil, nil, pierrors.ValidationFailed("content.include", err.Error())
	}

	switch cfg.Content.Source {
	case config.SourceFS, "":
		return NewFSSource(afero.NewOsFs(), cfg.Content.Dir, matcher), nopCloser{}, nil
	case config.SourceSQLite:
		src, err := NewSQLiteSource(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	case config.SourceGit:
		return NewGitSource(cfg.Git, matcher), nopCloser{}, nil
	default:
		return nil, nil, pierrors.ValidationFailed("content.source", "unsupported source "+string(cfg.Content.Source))
	}
}

// NewLoaderFromConfig wires a loader with the policy and analysis options of cfg.
func NewLoaderFromConfig(cfg *config.Config, src Source, opts ...LoaderOption) *Loader {
	base := []LoaderOption{
		WithPolicy(cfg.Content.Policy),
		WithMarkdownOptions(cfg.Content.MarkdownOptions()),
	}
	return NewLoader(src, append(base, opts...)...)
}
