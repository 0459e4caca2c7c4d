package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the frontmatter syntax of a document.
type Format string

const (
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// delimiter returns the fence line marker for f.
func (f Format) delimiter() string {
	if f == FormatTOML {
		return "+++"
	}
	return "---"
}

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline/trailing newline shape and the fence
// syntax; it does not attempt to preserve original formatting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
	Format             Format
}

// Split separates frontmatter from the Markdown body. YAML (`---`) and
// TOML (`+++`) fences are recognized.
//
// If the document does not start with a frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	for _, f := range []Format{FormatYAML, FormatTOML} {
		delim := f.delimiter()
		open := []byte(delim + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		style.Format = f

		frontmatterStart := len(open)
		if bytes.HasPrefix(content[frontmatterStart:], open) {
			bodyStart := frontmatterStart + len(open)
			return []byte{}, content[bodyStart:], true, style, nil
		}

		closeSeq := []byte(nl + delim + nl)
		idx := bytes.Index(content[frontmatterStart:], closeSeq)
		if idx < 0 {
			// A closing fence may also end the file without a trailing newline.
			tail := []byte(nl + delim)
			if bytes.HasSuffix(content, tail) && len(content)-len(tail) >= frontmatterStart {
				end := len(content) - len(tail) + len(nl)
				return content[frontmatterStart:end], []byte{}, true, style, nil
			}
			return nil, nil, false, style, fmt.Errorf("%w (%s)", ErrMissingClosingDelimiter, delim)
		}

		frontmatterEnd := frontmatterStart + idx + len(nl)
		bodyStart := frontmatterStart + idx + len(closeSeq)
		return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, style, nil
	}
	return nil, content, false, style, nil
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is. Otherwise the frontmatter is
// fenced with the delimiter of style.Format (YAML when unset) and the
// newline style captured in Style.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	fence := []byte(style.Format.delimiter() + nl)

	out := make([]byte, 0, 2*len(fence)+len(frontmatter)+len(body))
	out = append(out, fence...)
	out = append(out, frontmatter...)
	out = append(out, fence...)
	out = append(out, body...)
	return out
}

// Parse decodes raw frontmatter of the given format into a map.
func Parse(frontmatter []byte, format Format) (map[string]any, error) {
	switch format {
	case FormatTOML:
		return ParseTOML(frontmatter)
	case FormatYAML, FormatNone:
		return ParseYAML(frontmatter)
	default:
		return nil, fmt.Errorf("unsupported frontmatter format %q", format)
	}
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseTOML parses raw TOML frontmatter (without +++ delimiters) into a map.
func ParseTOML(frontmatter []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return fields, nil
	}
	if err := toml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// ErrMissingClosingDelimiter indicates the document started with a
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && (content[len(content)-1] == '\n')

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
