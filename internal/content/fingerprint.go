package content

import (
	"errors"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/postindex/internal/frontmatter"
)

// ComputeFingerprint computes the canonical content fingerprint of a record:
// the body plus frontmatter rendered by frontmatter.CanonicalYAML without
// the fingerprint field. Reordering or re-casing keys does not change it.
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}
	fm, err := frontmatter.CanonicalYAML(fields, mdfp.FingerprintField)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
