package commands

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/postindex/internal/config"
	"git.home.luguber.info/inful/postindex/internal/content"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/logfields"
)

// ImportCmd implements the 'import' command.
type ImportCmd struct {
	From  string `help:"Content directory to read (default: content.dir)" type:"path"`
	DB    string `name:"db" help:"SQLite database to write (default: sqlite.path)" type:"path"`
	Prune bool   `help:"Delete stored posts that are no longer in the content directory"`
}

type importResult struct {
	Database string         `json:"database"`
	Imported int            `json:"imported"`
	Pruned   int            `json:"pruned"`
	Report   content.Report `json:"report"`
}

func (c *ImportCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	res, err := c.importPosts(context.Background(), g, cfg)
	if err != nil {
		return err
	}
	if root.JSON {
		return writeJSON(g.Out, res)
	}
	_, _ = fmt.Fprintf(g.Out, "Imported %d posts into %s", res.Imported, res.Database)
	if c.Prune {
		_, _ = fmt.Fprintf(g.Out, " (pruned %d)", res.Pruned)
	}
	_, _ = fmt.Fprintln(g.Out)
	for _, s := range res.Report.Skipped {
		_, _ = fmt.Fprintf(g.Out, "  skipped %s: %s\n", s.Path, s.Reason)
	}
	return nil
}

func (c *ImportCmd) importPosts(ctx context.Context, g *Global, cfg *config.Config) (importResult, error) {
	from := cfg.Content.Dir
	if c.From != "" {
		from = c.From
	}
	dbPath := cfg.SQLite.Path
	if c.DB != "" {
		dbPath = c.DB
	}

	matcher, err := content.NewMatcher(cfg.Content.Include, cfg.Content.Exclude, cfg.Content.Extensions)
	if err != nil {
		return importResult{}, pierrors.ValidationFailed("content.include", err.Error())
	}
	loader := content.NewLoaderFromConfig(cfg, content.NewFSSource(afero.NewOsFs(), from, matcher),
		content.WithLogger(g.Logger), content.WithRecorder(g.Recorder))
	idx, report, err := loader.Load(ctx)
	if err != nil {
		return importResult{}, err
	}

	store, err := content.NewSQLiteSource(dbPath)
	if err != nil {
		return importResult{}, err
	}
	defer func() { _ = store.Close() }()

	res := importResult{Database: dbPath, Report: report}
	for _, p := range idx.Posts() {
		if err := store.Put(ctx, p); err != nil {
			return res, err
		}
		res.Imported++
	}

	if c.Prune {
		existing, err := store.Records(ctx)
		if err != nil {
			return res, err
		}
		for _, rec := range existing {
			if _, ok := idx.Get(rec.Key); ok {
				continue
			}
			if err := store.Delete(ctx, rec.Key); err != nil {
				return res, err
			}
			g.Logger.Debug("Pruned stored post", logfields.PostID(rec.Key))
			res.Pruned++
		}
	}
	return res, nil
}
