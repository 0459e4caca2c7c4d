package sets

// Set is a simple generic hash set for comparable keys.
// Usage: s := sets.New[string]("a","b"); s.Add("c"); if s.Has("b") {...}
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Delete removes v if present.
func (s Set[T]) Delete(v T) { delete(s, v) }

// Ordered keeps values in first-insertion order and ignores repeats of a key.
//
// The key function decides identity, so records can be deduplicated by a
// field (e.g. a slug) while the full value is retained.
type Ordered[K comparable, V any] struct {
	key   func(V) K
	seen  Set[K]
	items []V
}

// NewOrdered creates an empty ordered set keyed by key.
func NewOrdered[K comparable, V any](key func(V) K) *Ordered[K, V] {
	return &Ordered[K, V]{key: key, seen: New[K]()}
}

// Insert appends v unless a value with the same key was inserted before.
// It reports whether v was added.
func (o *Ordered[K, V]) Insert(v V) bool {
	k := o.key(v)
	if o.seen.Has(k) {
		return false
	}
	o.seen.Add(k)
	o.items = append(o.items, v)
	return true
}

// Has reports whether a value with key k was inserted.
func (o *Ordered[K, V]) Has(k K) bool { return o.seen.Has(k) }

// Len returns the number of distinct values.
func (o *Ordered[K, V]) Len() int { return len(o.items) }

// Values returns the values in insertion order. The slice is a copy.
func (o *Ordered[K, V]) Values() []V {
	out := make([]V, len(o.items))
	copy(out, o.items)
	return out
}
