package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/postindex/internal/post"
)

const dateLayout = "2006-01-02"

// postSummary is the JSON shape of a post in list output.
type postSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	ReadingTime int      `json:"reading_time"`
}

func summarize(posts []post.Post) []postSummary {
	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, postSummary{
			ID:          p.ID,
			Title:       p.Title,
			Date:        p.Date.Format(dateLayout),
			Tags:        p.Tags,
			Image:       p.ImageURL(),
			Description: p.Description,
			ReadingTime: p.ReadingTime,
		})
	}
	return out
}

func printPosts(w io.Writer, asJSON bool, posts []post.Post) error {
	if asJSON {
		return writeJSON(w, summarize(posts))
	}
	if len(posts) == 0 {
		_, err := fmt.Fprintln(w, "No posts found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDATE\tTITLE\tTAGS")
	for _, p := range posts {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Date.Format(dateLayout), p.Title, strings.Join(p.Tags, ", "))
	}
	return tw.Flush()
}

func printTags(w io.Writer, asJSON bool, tags []post.TagCount) error {
	if asJSON {
		return writeJSON(w, tags)
	}
	if len(tags) == 0 {
		_, err := fmt.Fprintln(w, "No tags found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TAG\tPOSTS")
	for _, t := range tags {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", t.Tag, t.Count)
	}
	return tw.Flush()
}

func printPost(w io.Writer, p post.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	_, _ = fmt.Fprintf(tw, "Title:\t%s\n", p.Title)
	_, _ = fmt.Fprintf(tw, "Date:\t%s\n", p.Date.Format(dateLayout))
	_, _ = fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(p.Tags, ", "))
	if p.HasImage() {
		_, _ = fmt.Fprintf(tw, "Image:\t%s\n", p.ImageURL())
	}
	if p.Description != "" {
		_, _ = fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	}
	_, _ = fmt.Fprintf(tw, "Reading time:\t%d min\n", p.ReadingTime)
	if p.Source != "" {
		_, _ = fmt.Fprintf(tw, "Source:\t%s\n", p.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(p.Headings) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w, "Contents:")
	for _, h := range p.Headings {
		indent := strings.Repeat("  ", max(h.Level-1, 0))
		_, _ = fmt.Fprintf(w, "  %s%s (#%s)\n", indent, h.Text, h.ID)
	}
	return nil
}
