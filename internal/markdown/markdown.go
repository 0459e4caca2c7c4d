// Package markdown extracts post metadata from a Markdown/MDX body: headings,
// reading time, an excerpt and the first image. Nothing is rendered.
package markdown

import (
	"bytes"
	"html"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const (
	// DefaultWordsPerMinute is the reading speed used for ReadingTime.
	DefaultWordsPerMinute = 200
	// DefaultExcerptLength is the excerpt cap in runes, ellipsis included.
	DefaultExcerptLength = 160
)

// Options controls how a body is analyzed. Zero values select the defaults.
type Options struct {
	WordsPerMinute int
	ExcerptLength  int
}

func (o Options) withDefaults() Options {
	if o.WordsPerMinute <= 0 {
		o.WordsPerMinute = DefaultWordsPerMinute
	}
	if o.ExcerptLength <= 0 {
		o.ExcerptLength = DefaultExcerptLength
	}
	return o
}

// Heading is a section heading with the anchor goldmark would generate for it.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Analysis is the metadata derived from one body.
type Analysis struct {
	Headings    []Heading
	Words       int
	ReadingTime int
	Excerpt     string
	FirstImage  string
	Links       []Link
}

var (
	md = goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))

	// StrictPolicy is safe for concurrent use once built.
	stripTags = bluemonday.StrictPolicy()
)

// parseBody parses a Markdown body (frontmatter already removed). The
// returned context holds the reference definitions.
func parseBody(body []byte) (gmast.Node, parser.Context) {
	ctx := parser.NewContext()
	return md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx)), ctx
}

// Analyze parses the body once and collects headings, word count, the
// first paragraph and every link or image.
func Analyze(body []byte, opts Options) (Analysis, error) {
	opts = opts.withDefaults()
	root, ctx := parseBody(body)

	var (
		a         Analysis
		excerptOK bool
	)
	a.Headings = make([]Heading, 0)

	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			a.Headings = append(a.Headings, Heading{
				Level: node.Level,
				Text:  plainText(node, body),
				ID:    headingID(node),
			})
		case *gmast.Paragraph:
			if !excerptOK {
				if ex := excerpt(node, body, opts.ExcerptLength); ex != "" {
					a.Excerpt = ex
					excerptOK = true
				}
			}
		case *gmast.Text:
			a.Words += len(strings.Fields(string(node.Segment.Value(body))))
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return Analysis{}, err
	}

	a.ReadingTime = ReadingTime(a.Words, opts.WordsPerMinute)

	links, err := collectLinks(root, ctx, body)
	if err != nil {
		return Analysis{}, err
	}
	a.Links = links
	a.FirstImage = firstImage(links)

	return a, nil
}

// ReadingTime is minutes to read words at wpm, rounded up, never below one.
func ReadingTime(words, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	minutes := int(math.Ceil(float64(words) / float64(wpm)))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func firstImage(links []Link) string {
	for _, l := range links {
		if l.Kind == LinkKindImage && l.Destination != "" {
			return l.Destination
		}
	}
	for _, l := range links {
		if l.Kind == LinkKindHTMLImage && l.Destination != "" {
			return l.Destination
		}
	}
	return ""
}

func headingID(h *gmast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// plainText concatenates the text below n, including code spans and the
// raw source of inline HTML. Image alt text is left out.
func plainText(n gmast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Image:
			return gmast.WalkSkipChildren, nil
		case *gmast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(node.Value)
		case *gmast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(src))
			}
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// excerpt returns the paragraph as plain text, cut to limit runes.
func excerpt(p *gmast.Paragraph, src []byte, limit int) string {
	raw := plainText(p, src)
	clean := html.UnescapeString(stripTags.Sanitize(raw))
	clean = strings.Join(strings.Fields(clean), " ")
	if utf8.RuneCountInString(clean) <= limit {
		return clean
	}
	runes := []rune(clean)
	cut := strings.TrimSpace(string(runes[:limit-1]))
	return cut + "…"
}
