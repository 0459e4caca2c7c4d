package content

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/postindex/internal/frontmatter"
)

// parseDocument splits a Markdown/MDX file into frontmatter fields and body.
func parseDocument(rel string, data []byte) Record {
	rec := Record{Key: keyFromPath(rel), Path: rel}

	fm, body, had, style, err := frontmatter.Split(data)
	if err != nil {
		rec.Err = err
		return rec
	}
	if !had {
		rec.Fields = map[string]any{}
		rec.Body = body
		return rec
	}

	fields, err := frontmatter.Parse(fm, style.Format)
	if err != nil {
		rec.Err = err
		return rec
	}
	rec.Fields = fields
	rec.Body = body
	return rec
}

// keyFromPath derives the default post ID from a slash-separated path: the
// base name without extension, or the directory name for "index" files
// (page bundles such as hello-world/index.md).
func keyFromPath(rel string) string {
	base := path.Base(rel)
	name := strings.TrimSuffix(base, path.Ext(base))
	if strings.EqualFold(name, "index") {
		if dir := path.Base(path.Dir(rel)); dir != "." && dir != "/" {
			return dir
		}
	}
	return name
}
