package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/postindex/internal/config"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/frontmatter"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool `help:"Overwrite existing files"`
	Sample bool `help:"Also write an example post into the content directory"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	_, _ = fmt.Fprintf(g.Out, "Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	if !i.Sample {
		return nil
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	path, err := writeSamplePost(cfg.Content.Dir, i.Force, time.Now())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "Writing example post to %s\n", path)
	return nil
}

// writeSamplePost creates hello-world.md below dir.
func writeSamplePost(dir string, force bool, now time.Time) (string, error) {
	path := filepath.Join(dir, "hello-world.md")
	if _, err := os.Stat(path); err == nil && !force {
		return "", pierrors.New(pierrors.CategoryValidation, pierrors.SeverityError, "example post already exists (use --force to overwrite)").
			WithContext("path", path)
	}

	style := frontmatter.Style{Newline: "\n", HasTrailingNewline: true, Format: frontmatter.FormatYAML}
	fm, err := frontmatter.SerializeYAML(map[string]any{
		"title":       "Hello, world",
		"date":        now.Format("2006-01-02"),
		"tags":        []any{"meta", "#welcome"},
		"description": "The first post.",
	})
	if err != nil {
		return "", pierrors.InternalError("failed to render example post", err)
	}
	body := []byte("# Hello, world\n\nThis post was written by `postindex init --sample`.\n")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", pierrors.FileSystemError("create content dir", err).WithContext("path", dir)
	}
	if err := os.WriteFile(path, frontmatter.Join(fm, body, true, style), 0o644); err != nil {
		return "", pierrors.FileSystemError("write example post", err).WithContext("path", path)
	}
	return path, nil
}
