package frontmatter

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SerializeYAML renders post frontmatter as YAML without fences. Keys are
// sorted at every level and lines end in LF, so equal maps give equal bytes.
// An empty map renders as nothing.
func SerializeYAML(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	node, err := mappingNode(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CanonicalYAML is the frontmatter form post fingerprints hash: top-level
// keys lower-cased, omitted keys dropped, no trailing newline. When two keys
// differ only in case, the one sorting first wins.
func CanonicalYAML(fields map[string]any, omit ...string) (string, error) {
	skip := make(map[string]bool, len(omit))
	for _, k := range omit {
		skip[strings.ToLower(k)] = true
	}

	canon := make(map[string]any, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		lk := strings.ToLower(k)
		if _, seen := canon[lk]; seen || skip[lk] {
			continue
		}
		canon[lk] = fields[k]
	}

	out, err := SerializeYAML(canon)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

func mappingNode(m map[string]any) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v, err := valueNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, v)
	}
	return n, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case map[string]any:
		return mappingNode(vv)
	case map[any]any:
		converted := make(map[string]any, len(vv))
		for k, val := range vv {
			converted[fmt.Sprint(k)] = val
		}
		return mappingNode(converted)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			n, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case time.Time:
		// TOML dates decode to time.Time; YAML ones stay strings.
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: vv.Format(time.RFC3339)}, nil
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
