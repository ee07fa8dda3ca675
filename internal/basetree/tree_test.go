package basetree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// testLeaf is a minimal dense-array LeafPage[int64] used only to exercise
// the generic tree mechanics independent of ctleaf/loleaf's own leaf
// implementations.
type testLeaf struct {
	keys     []int64
	vals     []int64
	capacity int
}

func newTestLeaf(capacity int) *testLeaf { return &testLeaf{capacity: capacity} }

func (l *testLeaf) indexOf(key int64) (int, bool) {
	i := sort.Search(len(l.keys), func(i int) bool { return l.keys[i] >= key })
	if i < len(l.keys) && l.keys[i] == key {
		return i, true
	}
	return i, false
}

func (l *testLeaf) Get(key int64) (int64, bool) {
	i, ok := l.indexOf(key)
	if !ok {
		return 0, false
	}
	return l.vals[i], true
}

func (l *testLeaf) Put(key, val int64) error {
	i, ok := l.indexOf(key)
	if ok {
		l.vals[i] = val
		return nil
	}
	if len(l.keys) >= l.capacity {
		return ErrLeafFull
	}
	l.keys = append(l.keys, 0)
	copy(l.keys[i+1:], l.keys[i:])
	l.keys[i] = key
	l.vals = append(l.vals, 0)
	copy(l.vals[i+1:], l.vals[i:])
	l.vals[i] = val
	return nil
}

func (l *testLeaf) Delete(key int64) bool {
	i, ok := l.indexOf(key)
	if !ok {
		return false
	}
	l.keys = append(l.keys[:i], l.keys[i+1:]...)
	l.vals = append(l.vals[:i], l.vals[i+1:]...)
	return true
}

func (l *testLeaf) Len() int            { return len(l.keys) }
func (l *testLeaf) IsUnderflow() bool   { return len(l.keys) < l.capacity/2 }
func (l *testLeaf) Keys() []int64 {
	out := make([]int64, len(l.keys))
	copy(out, l.keys)
	return out
}

func (l *testLeaf) Split(newLeaf LeafPage[int64]) (int64, error) {
	right := newLeaf.(*testLeaf)
	mid := len(l.keys) / 2
	right.keys = append(right.keys, l.keys[mid:]...)
	right.vals = append(right.vals, l.vals[mid:]...)
	sep := l.keys[mid]
	l.keys = l.keys[:mid:mid]
	l.vals = l.vals[:mid:mid]
	return sep, nil
}

func (l *testLeaf) MergeFrom(rightPage LeafPage[int64]) error {
	right := rightPage.(*testLeaf)
	l.keys = append(l.keys, right.keys...)
	l.vals = append(l.vals, right.vals...)
	return nil
}

func newTestTree(order, capacity int) *Tree[int64] {
	return New(order, capacity, func() LeafPage[int64] { return newTestLeaf(capacity) })
}

func TestTreePutGet(t *testing.T) {
	tr := newTestTree(4, 4)
	for i := int64(0); i < 100; i++ {
		require.NoError(t, tr.Put(i, i*10))
	}
	for i := int64(0); i < 100; i++ {
		v, ok := tr.Get(i)
		require.True(t, ok)
		require.Equal(t, i*10, v)
	}
	require.Equal(t, 100, tr.Len())
}

func TestTreeSplitsOnOverflow(t *testing.T) {
	tr := newTestTree(4, 4)
	for i := int64(0); i < 5; i++ {
		require.NoError(t, tr.Put(i, i))
	}
	require.Equal(t, 5, tr.Len())
	keys := tr.Keys()
	require.True(t, sort.IsSorted(int64Slice(keys)))
}

func TestTreeDeleteAndMerge(t *testing.T) {
	tr := newTestTree(4, 4)
	for i := int64(0); i < 50; i++ {
		require.NoError(t, tr.Put(i, i))
	}
	for i := int64(0); i < 50; i += 2 {
		require.True(t, tr.Delete(i))
	}
	for i := int64(0); i < 50; i++ {
		v, ok := tr.Get(i)
		if i%2 == 0 {
			require.False(t, ok)
		} else {
			require.True(t, ok)
			require.Equal(t, i, v)
		}
	}
}

func TestTreeOrderingAcrossLeaves(t *testing.T) {
	tr := newTestTree(3, 3)
	for _, k := range []int64{50, 10, 30, 5, 70, 20, 90, 1, 60} {
		require.NoError(t, tr.Put(k, k))
	}
	keys := tr.Keys()
	require.True(t, sort.IsSorted(int64Slice(keys)))
	require.Len(t, keys, 9)
}

func TestTreeEmptyGet(t *testing.T) {
	tr := newTestTree(4, 4)
	_, ok := tr.Get(1)
	require.False(t, ok)
	require.False(t, tr.Delete(1))
}

func TestTreeWalkStopsEarly(t *testing.T) {
	tr := newTestTree(4, 2)
	for i := int64(0); i < 20; i++ {
		require.NoError(t, tr.Put(i, i))
	}
	visited := 0
	tr.Walk(func(page LeafPage[int64]) bool {
		visited++
		return visited < 2
	})
	require.Equal(t, 2, visited)
}

type int64Slice []int64

func (s int64Slice) Len() int           { return len(s) }
func (s int64Slice) Less(i, j int) bool { return s[i] < s[j] }
func (s int64Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
