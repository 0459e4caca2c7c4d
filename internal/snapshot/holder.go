package snapshot

import (
	"go.uber.org/atomic"

	"git.home.luguber.info/inful/postindex/internal/post"
)

// Holder stores the current index. The zero value holds nothing.
type Holder struct {
	current atomic.Pointer[post.Index]
}

// NewHolder returns a holder, optionally seeded with idx.
func NewHolder(idx *post.Index) *Holder {
	h := &Holder{}
	if idx != nil {
		h.current.Store(idx)
	}
	return h
}

// Current returns the index in use, or nil before the first load.
func (h *Holder) Current() *post.Index {
	return h.current.Load()
}

// Swap makes idx current and returns the previous index.
func (h *Holder) Swap(idx *post.Index) *post.Index {
	return h.current.Swap(idx)
}

// Ready reports whether an index has been stored.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}
