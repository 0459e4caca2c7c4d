package post

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/armon/go-radix"
	"github.com/google/uuid"
	"github.com/inful/mdfp"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/util/sets"
)

// Index is an immutable, ordered snapshot of every post.
//
// Posts are kept newest first; posts sharing a date are ordered by ID so the
// order is the same for identical input. An Index is safe for concurrent
// readers and is replaced wholesale when content changes.
type Index struct {
	posts []Post
	byID  map[string]int
	byTag map[string][]int
	tags  *radix.Tree

	snapshotID  string
	loadedAt    time.Time
	source      string
	fingerprint string
}

// IndexOption customizes snapshot metadata at construction.
type IndexOption func(*Index)

// WithSnapshotID overrides the generated snapshot identifier.
func WithSnapshotID(id string) IndexOption {
	return func(idx *Index) { idx.snapshotID = id }
}

// WithLoadedAt overrides the load timestamp.
func WithLoadedAt(t time.Time) IndexOption {
	return func(idx *Index) { idx.loadedAt = t }
}

// WithSource records the name of the content source the posts came from.
func WithSource(name string) IndexOption {
	return func(idx *Index) { idx.source = name }
}

// NewIndex builds an index over a copy of posts. It fails when two posts
// share an ID or a post has an empty ID.
func NewIndex(posts []Post, opts ...IndexOption) (*Index, error) {
	idx := &Index{
		posts:      clonePosts(posts),
		byID:       make(map[string]int, len(posts)),
		byTag:      make(map[string][]int),
		tags:       radix.New(),
		snapshotID: uuid.NewString(),
		loadedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(idx)
	}

	slices.SortStableFunc(idx.posts, func(a, b Post) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for i, p := range idx.posts {
		if strings.TrimSpace(p.ID) == "" {
			return nil, pierrors.InvalidArgument("post.id", "empty id").WithContext("title", p.Title)
		}
		if _, dup := idx.byID[p.ID]; dup {
			return nil, pierrors.InvalidArgument("post.id", "duplicate id").WithContext("id", p.ID)
		}
		idx.byID[p.ID] = i

		ts := sets.New[string]()
		for _, raw := range p.Tags {
			t := NormalizeTag(raw)
			if t == "" || ts.Has(t) {
				continue
			}
			ts.Add(t)
			idx.byTag[t] = append(idx.byTag[t], i)
		}
	}

	for t, positions := range idx.byTag {
		idx.tags.Insert(t, len(positions))
	}
	idx.fingerprint = combinedFingerprint(idx.posts)

	return idx, nil
}

// Len returns the number of posts.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.posts)
}

// Posts returns every post in index order.
func (idx *Index) Posts() []Post {
	if idx == nil {
		return []Post{}
	}
	return clonePosts(idx.posts)
}

// Get looks a post up by ID.
func (idx *Index) Get(id string) (Post, bool) {
	if idx == nil {
		return Post{}, false
	}
	i, ok := idx.byID[id]
	if !ok {
		return Post{}, false
	}
	return idx.posts[i].clone(), true
}

// Tags lists every normalized tag with its post count, most used first.
func (idx *Index) Tags() []TagCount {
	if idx == nil {
		return []TagCount{}
	}
	out := make([]TagCount, 0, len(idx.byTag))
	for t, positions := range idx.byTag {
		out = append(out, TagCount{Tag: t, Count: len(positions)})
	}
	sortTagCounts(out)
	return out
}

// TagsWithPrefix lists tags starting with the normalized prefix, most used first.
func (idx *Index) TagsWithPrefix(prefix string) []TagCount {
	if idx == nil {
		return []TagCount{}
	}
	p := NormalizeTag(prefix)
	if p == "" {
		return idx.Tags()
	}
	out := make([]TagCount, 0)
	idx.tags.WalkPrefix(p, func(s string, v interface{}) bool {
		out = append(out, TagCount{Tag: s, Count: v.(int)})
		return false
	})
	sortTagCounts(out)
	return out
}

// SnapshotID identifies this snapshot in logs and notifications.
func (idx *Index) SnapshotID() string {
	if idx == nil {
		return ""
	}
	return idx.snapshotID
}

// LoadedAt is when the snapshot was built.
func (idx *Index) LoadedAt() time.Time {
	if idx == nil {
		return time.Time{}
	}
	return idx.loadedAt
}

// Source names the content source of the snapshot.
func (idx *Index) Source() string {
	if idx == nil {
		return ""
	}
	return idx.source
}

// Fingerprint summarizes every post's content; equal fingerprints mean the
// snapshots carry the same posts.
func (idx *Index) Fingerprint() string {
	if idx == nil {
		return ""
	}
	return idx.fingerprint
}

// positionsForTag returns index positions of posts carrying normalized tag t.
func (idx *Index) positionsForTag(t string) []int {
	return idx.byTag[t]
}

func sortTagCounts(tc []TagCount) {
	slices.SortFunc(tc, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
}

// combinedFingerprint hashes "id fingerprint" lines sorted by ID, so load
// order does not change the result.
func combinedFingerprint(posts []Post) string {
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		fp := p.Fingerprint
		if fp == "" {
			fp = mdfp.CalculateFingerprintFromParts(p.Title+"\n"+p.Date.Format(time.RFC3339)+"\n"+strings.Join(p.Tags, ","), p.Body)
		}
		lines = append(lines, p.ID+" "+fp)
	}
	slices.Sort(lines)
	return mdfp.CalculateFingerprintFromParts("", strings.Join(lines, "\n"))
}
