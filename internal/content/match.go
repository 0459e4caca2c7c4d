package content

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultExtensions are the file extensions read when none are configured.
var DefaultExtensions = []string{".md", ".mdx"}

// Matcher selects source files by extension and include/exclude globs.
// Patterns use '/' as separator and match the slash-separated path relative
// to the source root.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
	exts    map[string]struct{}
}

// NewMatcher compiles the patterns. An empty include list matches everything.
func NewMatcher(include, exclude, extensions []string) (*Matcher, error) {
	m := &Matcher{exts: make(map[string]struct{})}
	var err error
	if m.include, err = compileAll(include); err != nil {
		return nil, err
	}
	if m.exclude, err = compileAll(exclude); err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	for _, e := range extensions {
		m.exts[strings.ToLower(e)] = struct{}{}
	}
	return m, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Match reports whether rel should be read.
func (m *Matcher) Match(rel string) bool {
	if _, ok := m.exts[strings.ToLower(path.Ext(rel))]; !ok {
		return false
	}
	for _, g := range m.exclude {
		if g.Match(rel) {
			return false
		}
	}
	if len(m.include) == 0 {
		return true
	}
	for _, g := range m.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
