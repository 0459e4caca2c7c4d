package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_AddHasDelete(t *testing.T) {
	s := New("a", "b")
	s.Add("c")

	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("c"))
	assert.False(t, s.Has("d"))

	s.Delete("a")
	assert.False(t, s.Has("a"))
	assert.Len(t, s, 2)
}

type item struct {
	id   string
	from string
}

func TestOrdered_FirstInsertWins(t *testing.T) {
	o := NewOrdered(func(i item) string { return i.id })

	require.True(t, o.Insert(item{id: "b", from: "go"}))
	require.True(t, o.Insert(item{id: "c", from: "web"}))
	require.False(t, o.Insert(item{id: "b", from: "web"}))

	got := o.Values()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].id)
	assert.Equal(t, "go", got[0].from)
	assert.Equal(t, "c", got[1].id)
	assert.True(t, o.Has("c"))
	assert.Equal(t, 2, o.Len())
}

func TestOrdered_ValuesIsCopy(t *testing.T) {
	o := NewOrdered(func(s string) string { return s })
	o.Insert("x")

	v := o.Values()
	v[0] = "mutated"

	assert.Equal(t, []string{"x"}, o.Values())
}
