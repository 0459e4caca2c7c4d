package commands

import (
	"context"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/metrics"
	"git.home.luguber.info/inful/postindex/internal/post"
)

// TagsCmd implements the 'tags' command.
type TagsCmd struct {
	Prefix string `help:"Only list tags starting with this prefix"`
}

func (c *TagsCmd) Run(g *Global, root *CLI) error {
	_, idx, err := root.openIndex(context.Background(), g)
	if err != nil {
		return err
	}
	g.Recorder.IncQuery(metrics.QueryTags)
	return printTags(g.Out, root.JSON, idx.TagsWithPrefix(c.Prefix))
}

// FilterCmd implements the 'filter' command.
type FilterCmd struct {
	Tag string `arg:"" help:"Tag to filter by; case and a leading # are ignored"`
}

func (c *FilterCmd) Run(g *Global, root *CLI) error {
	_, idx, err := root.openIndex(context.Background(), g)
	if err != nil {
		return err
	}
	g.Recorder.IncQuery(metrics.QueryFilter)
	return printPosts(g.Out, root.JSON, post.FilterByTag(idx, c.Tag))
}

// RelatedCmd implements the 'related' command.
type RelatedCmd struct {
	ID         string `arg:"" help:"ID of the post to find relations for"`
	MaxTags    int    `help:"Number of leading tags to consult (default from config)"`
	MaxResults int    `help:"Maximum number of suggestions (default from config)"`
}

func (c *RelatedCmd) Run(g *Global, root *CLI) error {
	cfg, idx, err := root.openIndex(context.Background(), g)
	if err != nil {
		return err
	}

	maxTags, maxResults := cfg.Related.MaxTags, cfg.Related.MaxResults
	if c.MaxTags > 0 {
		maxTags = c.MaxTags
	}
	if c.MaxResults > 0 {
		maxResults = c.MaxResults
	}

	related, err := post.SelectRelatedByID(idx, c.ID, post.WithMaxTags(maxTags), post.WithMaxResults(maxResults))
	if err != nil {
		return err
	}
	g.Recorder.IncQuery(metrics.QueryRelated)
	return printPosts(g.Out, root.JSON, related)
}

// SearchCmd implements the 'search' command.
type SearchCmd struct {
	Query     string `arg:"" help:"Text to look for in post titles"`
	MinLength int    `help:"Shortest query that filters (default from config)"`
}

func (c *SearchCmd) Run(g *Global, root *CLI) error {
	cfg, idx, err := root.openIndex(context.Background(), g)
	if err != nil {
		return err
	}
	minLen := cfg.Search.MinQueryLength
	if c.MinLength > 0 {
		minLen = c.MinLength
	}
	g.Recorder.IncQuery(metrics.QuerySearch)
	return printPosts(g.Out, root.JSON, post.SearchTitle(idx, c.Query, minLen))
}

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	ID string `arg:"" help:"Post ID"`
}

func (c *ShowCmd) Run(g *Global, root *CLI) error {
	_, idx, err := root.openIndex(context.Background(), g)
	if err != nil {
		return err
	}
	p, ok := idx.Get(c.ID)
	if !ok {
		return pierrors.NotFound("post", c.ID)
	}
	if root.JSON {
		return writeJSON(g.Out, p)
	}
	return printPost(g.Out, p)
}
