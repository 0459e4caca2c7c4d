// Package commands implements the postindex subcommands.
package commands

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/postindex/internal/config"
	"git.home.luguber.info/inful/postindex/internal/content"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/metrics"
	"git.home.luguber.info/inful/postindex/internal/post"
	"git.home.luguber.info/inful/postindex/internal/version"
)

// LogLevelEnv overrides the configured log level unless --verbose is set.
const LogLevelEnv = "POSTINDEX_LOG_LEVEL"

// Global carries state shared by every subcommand.
type Global struct {
	Logger   *slog.Logger
	Out      io.Writer
	Recorder metrics.Recorder
}

// NewGlobal returns a Global writing command output to out.
func NewGlobal(out io.Writer) *Global {
	return &Global{Logger: slog.Default(), Out: out, Recorder: metrics.NoopRecorder{}}
}

// NewParser builds the kong parser for cli with g bound for hooks and Run methods.
func NewParser(cli *CLI, g *Global, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("postindex"),
		kong.Description("Index blog posts and query them by tag, relation and title."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(g),
	}
	return kong.New(cli, append(base, opts...)...)
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"postindex.yaml" env:"POSTINDEX_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	JSON    bool             `name:"json" help:"Print results as JSON"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Index   IndexCmd   `cmd:"" help:"Load all posts and print a summary"`
	Tags    TagsCmd    `cmd:"" help:"List tags with post counts"`
	Filter  FilterCmd  `cmd:"" help:"List posts carrying a tag"`
	Related RelatedCmd `cmd:"" help:"Suggest posts related to a post"`
	Search  SearchCmd  `cmd:"" help:"Search post titles"`
	Show    ShowCmd    `cmd:"" help:"Show one post"`
	Import  ImportCmd  `cmd:"" help:"Copy posts from a content directory into the SQLite store"`
	Watch   WatchCmd   `cmd:"" help:"Keep the index current and serve health and metrics"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = config.NormalizeLogLevel(env).SlogLevel()
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	setupLogging(g, level)
	return nil
}

func setupLogging(g *Global, level slog.Level) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	g.Logger = logger
}

// loadConfig reads --config. A missing file at the default path falls back
// to built-in defaults so the commands work in a plain content checkout.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		if c.Config != config.DefaultPath || !isConfigNotFound(err) {
			return nil, err
		}
		g.Logger.Debug("No configuration file, using defaults", "path", c.Config)
		cfg = config.Default()
	}
	if !c.Verbose && os.Getenv(LogLevelEnv) == "" && cfg.Logging.Level != "" {
		setupLogging(g, cfg.Logging.Level.SlogLevel())
	}
	return cfg, nil
}

func isConfigNotFound(err error) bool {
	pie, ok := pierrors.As(err)
	return ok && pie.Category == pierrors.CategoryConfig && pie.Message == "configuration file not found"
}

// loadIndex builds an index from the configured source.
func loadIndex(ctx context.Context, g *Global, cfg *config.Config) (*post.Index, content.Report, error) {
	src, closer, err := content.NewSource(cfg)
	if err != nil {
		return nil, content.Report{}, err
	}
	defer func() { _ = closer.Close() }()

	loader := content.NewLoaderFromConfig(cfg, src, content.WithLogger(g.Logger), content.WithRecorder(g.Recorder))
	return loader.Load(ctx)
}

// openIndex is the shared prologue of the query commands.
func (c *CLI) openIndex(ctx context.Context, g *Global) (*config.Config, *post.Index, error) {
	cfg, err := c.loadConfig(g)
	if err != nil {
		return nil, nil, err
	}
	idx, _, err := loadIndex(ctx, g, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, idx, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return pierrors.InternalError("failed to encode output", err)
	}
	return nil
}
