package markdown

import (
	"bytes"
	"sort"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LinkKind tells which Markdown construct produced a Link.
type LinkKind string

const (
	// LinkKindInline is [text](dest), including resolved reference links.
	LinkKindInline LinkKind = "inline"
	// LinkKindImage is ![alt](dest).
	LinkKindImage LinkKind = "image"
	// LinkKindAuto is <https://...>.
	LinkKindAuto LinkKind = "auto"
	// LinkKindReferenceDefinition is a [label]: dest line.
	LinkKindReferenceDefinition LinkKind = "reference_definition"
	// LinkKindHTMLImage is an <img> tag inside raw HTML or MDX/JSX.
	LinkKindHTMLImage LinkKind = "html_image"
)

// Link is one link or image destination found in a body.
type Link struct {
	Kind        LinkKind
	Destination string
}

// ExtractLinks parses a Markdown body and extracts link-like constructs in
// document order, followed by reference definitions sorted by label.
func ExtractLinks(body []byte) ([]Link, error) {
	root, ctx := parseBody(body)
	return collectLinks(root, ctx, body)
}

// collectLinks walks an already parsed body. ctx must be the context the
// body was parsed with; it carries the reference definitions.
func collectLinks(root gmast.Node, ctx parser.Context, body []byte) ([]Link, error) {
	links := make([]Link, 0)
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		case *gmast.HTMLBlock:
			var raw bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				raw.Write(seg.Value(body))
			}
			if node.HasClosure() {
				raw.Write(node.ClosureLine.Value(body))
			}
			links = append(links, htmlImages(raw.Bytes())...)
		case *gmast.RawHTML:
			var raw bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				raw.Write(seg.Value(body))
			}
			links = append(links, htmlImages(raw.Bytes())...)
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	links = append(links, spacedImages(body)...)

	return links, nil
}

// htmlImages returns the src of every <img> tag in raw.
func htmlImages(raw []byte) []Link {
	out := make([]Link, 0)
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Img {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "src" && attr.Val != "" {
					out = append(out, Link{Kind: LinkKindHTMLImage, Destination: attr.Val})
					break
				}
			}
		}
	}
}
