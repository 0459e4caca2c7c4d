package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/markdown"
	"git.home.luguber.info/inful/postindex/internal/post"
)

// frontMatter is the typed view of a record's fields. Loosely typed values
// (dates, tags) are coerced with cast after decoding.
type frontMatter struct {
	ID          string `mapstructure:"id"`
	Slug        string `mapstructure:"slug"`
	Title       string `mapstructure:"title"`
	Date        any    `mapstructure:"date"`
	Tags        any    `mapstructure:"tags"`
	Image       string `mapstructure:"image"`
	Img         string `mapstructure:"img"`
	Description string `mapstructure:"description"`
}

// Decode turns a record into a post. The ID comes from `id`, then `slug`,
// then the record key. Title, date and tags are required; `tags` may be a
// list or a comma-separated string, and `img` is accepted for `image`.
// When no image or description is given, the first image and the opening
// paragraph of the body are used.
func Decode(rec Record, opts markdown.Options) (post.Post, error) {
	if rec.Err != nil {
		return post.Post{}, pierrors.Wrap(rec.Err, pierrors.CategoryContent, pierrors.SeverityFatal, "malformed record").
			WithContext("record", rec.Path)
	}

	fields := lowerKeys(rec.Fields)
	var fm frontMatter
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fm,
	})
	if err != nil {
		return post.Post{}, pierrors.InternalError("build frontmatter decoder", err)
	}
	if err := dec.Decode(fields); err != nil {
		return post.Post{}, pierrors.Wrap(err, pierrors.CategoryContent, pierrors.SeverityFatal, "invalid frontmatter").
			WithContext("record", rec.Path)
	}

	id := firstNonEmpty(fm.ID, fm.Slug, rec.Key)
	if id == "" {
		return post.Post{}, pierrors.MissingField(rec.Path, "id")
	}
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		return post.Post{}, pierrors.MissingField(rec.Path, "title")
	}
	if fm.Date == nil {
		return post.Post{}, pierrors.MissingField(rec.Path, "date")
	}
	date, err := parseDate(fm.Date)
	if err != nil {
		return post.Post{}, pierrors.Wrap(err, pierrors.CategoryContent, pierrors.SeverityFatal, "invalid date").
			WithContext("record", rec.Path)
	}
	if _, ok := fields["tags"]; !ok {
		return post.Post{}, pierrors.MissingField(rec.Path, "tags")
	}
	tags, err := parseTags(fm.Tags)
	if err != nil {
		return post.Post{}, pierrors.Wrap(err, pierrors.CategoryContent, pierrors.SeverityFatal, "invalid tags").
			WithContext("record", rec.Path)
	}

	analysis, err := markdown.Analyze(rec.Body, opts)
	if err != nil {
		return post.Post{}, pierrors.Wrap(err, pierrors.CategoryContent, pierrors.SeverityFatal, "analyze body").
			WithContext("record", rec.Path)
	}

	p := post.Post{
		ID:          id,
		Title:       title,
		Date:        date,
		Tags:        tags,
		Body:        string(rec.Body),
		Description: firstNonEmpty(fm.Description, analysis.Excerpt),
		ReadingTime: analysis.ReadingTime,
		Source:      rec.Path,
	}
	if img := firstNonEmpty(fm.Image, fm.Img, analysis.FirstImage); img != "" {
		p.Image = post.StringPtr(img)
	}
	for _, h := range analysis.Headings {
		p.Headings = append(p.Headings, post.Heading{Level: h.Level, Text: h.Text, ID: h.ID})
	}

	fp, err := ComputeFingerprint(rec.Fields, rec.Body)
	if err != nil {
		return post.Post{}, pierrors.Wrap(err, pierrors.CategoryContent, pierrors.SeverityFatal, "fingerprint").
			WithContext("record", rec.Path)
	}
	p.Fingerprint = fp
	return p, nil
}

// dateLayouts are tried after cast's own layouts fail.
var dateLayouts = []string{"2006-01-02 15:04", "02.01.2006", "January 2, 2006"}

// parseDate accepts time values, strings in common layouts and TOML local
// dates (via their String form).
func parseDate(v any) (time.Time, error) {
	if t, err := cast.ToTimeE(v); err == nil {
		return t, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)
	if t, err := cast.ToTimeE(s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

func parseTags(v any) ([]string, error) {
	if v == nil {
		return []string{}, nil
	}
	var raw []string
	if s, ok := v.(string); ok {
		raw = strings.Split(s, ",")
	} else {
		list, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, err
		}
		raw = list
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
