package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/postindex/internal/content"
)

// IndexCmd implements the 'index' command.
type IndexCmd struct{}

type indexSummary struct {
	SnapshotID  string         `json:"snapshot_id"`
	Fingerprint string         `json:"fingerprint"`
	Posts       int            `json:"posts"`
	Tags        int            `json:"tags"`
	Report      content.Report `json:"report"`
}

func (i *IndexCmd) Run(g *Global, root *CLI) error {
	ctx := context.Background()
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	idx, report, err := loadIndex(ctx, g, cfg)
	if err != nil {
		return err
	}

	summary := indexSummary{
		SnapshotID:  idx.SnapshotID(),
		Fingerprint: idx.Fingerprint(),
		Posts:       idx.Len(),
		Tags:        len(idx.Tags()),
		Report:      report,
	}
	if root.JSON {
		return writeJSON(g.Out, summary)
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Source:\t%s\n", report.Source)
	_, _ = fmt.Fprintf(tw, "Records:\t%d\n", report.Records)
	_, _ = fmt.Fprintf(tw, "Posts:\t%d\n", summary.Posts)
	_, _ = fmt.Fprintf(tw, "Tags:\t%d\n", summary.Tags)
	_, _ = fmt.Fprintf(tw, "Skipped:\t%d\n", len(report.Skipped))
	_, _ = fmt.Fprintf(tw, "Fingerprint:\t%s\n", summary.Fingerprint)
	_, _ = fmt.Fprintf(tw, "Duration:\t%s\n", report.Duration.Round(time.Millisecond))
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, s := range report.Skipped {
		_, _ = fmt.Fprintf(g.Out, "  skipped %s: %s\n", s.Path, s.Reason)
	}
	return nil
}
