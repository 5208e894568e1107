package qchash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapEmplaceAndAt(t *testing.T) {
	m := NewMap[string, int]()
	require.True(t, m.Emplace("a", 1))
	require.True(t, m.Emplace("b", 2))
	require.False(t, m.Emplace("a", 99))

	v, ok := m.At("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = m.At("missing")
	require.False(t, ok)
	require.Equal(t, 0, v)
}

func TestMapMustAtPanicsOnMiss(t *testing.T) {
	m := NewMap[string, int]()
	m.Emplace("a", 1)
	require.Equal(t, 1, m.MustAt("a"))
	require.Panics(t, func() {
		m.MustAt("missing")
	})
}

func TestMapIndexInsertsOnMiss(t *testing.T) {
	m := NewMap[string, int]()
	p := m.Index("counter")
	require.Equal(t, 0, *p)
	*p++
	require.Equal(t, 1, m.MustAt("counter"))

	p2 := m.Index("counter")
	*p2 += 10
	require.Equal(t, 11, m.MustAt("counter"))
}

func TestMapTryEmplaceReturnsExistingOnHit(t *testing.T) {
	m := NewMap[string, int]()
	m.Emplace("a", 1)

	p, inserted := m.TryEmplace("a", 99)
	require.False(t, inserted)
	require.Equal(t, 1, *p)

	p, inserted = m.TryEmplace("b", 2)
	require.True(t, inserted)
	require.Equal(t, 2, *p)
}

func TestMapDelete(t *testing.T) {
	m := NewMap[string, int]()
	m.Emplace("a", 1)
	m.Emplace("b", 2)

	require.True(t, m.Delete("a"))
	require.False(t, m.Delete("a"))
	require.Equal(t, 1, m.Len())
	_, ok := m.At("a")
	require.False(t, ok)
}

func TestMapIteration(t *testing.T) {
	m := NewMap[int, int]()
	for i := 0; i < 100; i++ {
		m.Emplace(i, i*i)
	}

	seen := map[int]int{}
	for it := m.Begin(); !it.Done(); it = it.Next() {
		kv := it.Entry()
		seen[kv.Key] = kv.Val
	}
	require.Equal(t, 100, len(seen))
	for k, v := range seen {
		require.Equal(t, k*k, v)
	}
}

func TestMapEqual(t *testing.T) {
	a := NewMap[string, int]()
	b := NewMap[string, int]()
	a.Emplace("x", 1)
	a.Emplace("y", 2)
	b.Emplace("y", 2)
	b.Emplace("x", 1)

	eq := func(x, y int) bool { return x == y }
	require.True(t, a.Equal(b, eq))

	b.Emplace("z", 3)
	require.False(t, a.Equal(b, eq))
}

func TestMapSwap(t *testing.T) {
	a := NewMap[string, int]()
	b := NewMap[string, int]()
	a.Emplace("x", 1)
	b.Emplace("y", 2)
	b.Emplace("z", 3)

	a.Swap(b)
	require.Equal(t, 2, a.Len())
	require.Equal(t, 1, b.Len())
	v, ok := a.At("y")
	require.True(t, ok)
	require.Equal(t, 2, v)
}
