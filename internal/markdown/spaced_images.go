package markdown

import "strings"

// spacedImages finds ![alt](dest) images whose destination contains
// whitespace. CommonMark drops those; MDX posts use them for cover images.
// Fenced and indented code is skipped, and so are inline code spans.
func spacedImages(body []byte) []Link {
	out := make([]Link, 0)
	fence := ""
	for _, line := range strings.Split(string(body), "\n") {
		if f := fenceMarker(strings.TrimSpace(line)); f != "" {
			switch fence {
			case "":
				fence = f
			case f:
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}
		for _, dest := range imageDestinations(withoutCodeSpans(line)) {
			if strings.ContainsAny(dest, " \t") {
				out = append(out, Link{Kind: LinkKindImage, Destination: dest})
			}
		}
	}
	return out
}

func fenceMarker(line string) string {
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, f) {
			return f
		}
	}
	return ""
}

// imageDestinations returns the raw destination of every ![..](..) on line.
func imageDestinations(line string) []string {
	var dests []string
	rest := line
	for {
		start := strings.Index(rest, "![")
		if start < 0 {
			return dests
		}
		rest = rest[start+2:]

		closeAlt := strings.IndexByte(rest, ']')
		if closeAlt < 0 || closeAlt+1 >= len(rest) || rest[closeAlt+1] != '(' {
			continue
		}
		tail := rest[closeAlt+2:]
		closeDest := strings.IndexByte(tail, ')')
		if closeDest < 0 {
			return dests
		}
		dests = append(dests, tail[:closeDest])
		rest = tail[closeDest+1:]
	}
}

// withoutCodeSpans drops `code` spans of any backtick run length. An
// unclosed run is kept as text.
func withoutCodeSpans(line string) string {
	if !strings.Contains(line, "`") {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	for line != "" {
		i := strings.IndexByte(line, '`')
		if i < 0 {
			b.WriteString(line)
			break
		}
		b.WriteString(line[:i])
		line = line[i:]

		n := len(line) - len(strings.TrimLeft(line, "`"))
		marker := line[:n]
		end := strings.Index(line[n:], marker)
		if end < 0 {
			b.WriteString(marker)
			line = line[n:]
			continue
		}
		line = line[n+end+n:]
	}
	return b.String()
}
