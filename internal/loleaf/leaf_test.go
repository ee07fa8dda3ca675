package loleaf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/zipcache/internal/basetree"
)

func TestLeafPutGetDelete(t *testing.T) {
	l := New(8)
	require.NoError(t, l.Put(10, ObjectPointer{LBA: 1, Size: 100}))
	require.NoError(t, l.Put(5, ObjectPointer{LBA: 2, Size: 200}))

	v, ok := l.Get(10)
	require.True(t, ok)
	require.Equal(t, uint64(1), v.LBA)

	require.Equal(t, []int64{5, 10}, l.Keys())

	require.True(t, l.Delete(5))
	require.False(t, l.Delete(5))
	_, ok = l.Get(5)
	require.False(t, ok)
}

func TestLeafFullReturnsErrLeafFull(t *testing.T) {
	l := New(2)
	require.NoError(t, l.Put(1, ObjectPointer{LBA: 1}))
	require.NoError(t, l.Put(2, ObjectPointer{LBA: 2}))
	err := l.Put(3, ObjectPointer{LBA: 3})
	require.ErrorIs(t, err, basetree.ErrLeafFull)
}

func TestLeafSplitOrdersKeys(t *testing.T) {
	l := New(16)
	for i := int64(0); i < 10; i++ {
		require.NoError(t, l.Put(i, ObjectPointer{LBA: uint64(i) + 1}))
	}
	right := New(16)
	sep, err := l.Split(right)
	require.NoError(t, err)

	for _, k := range l.Keys() {
		require.Less(t, k, sep)
	}
	for _, k := range right.Keys() {
		require.GreaterOrEqual(t, k, sep)
	}
	require.Equal(t, 10, l.Len()+right.Len())
}

func TestLeafMergeFrom(t *testing.T) {
	left := New(32)
	right := New(32)
	require.NoError(t, left.Put(1, ObjectPointer{LBA: 1}))
	require.NoError(t, right.Put(2, ObjectPointer{LBA: 2}))

	require.NoError(t, left.MergeFrom(right))
	require.Equal(t, 2, left.Len())
	require.Equal(t, []int64{1, 2}, left.Keys())
}

func TestObjectPointerValid(t *testing.T) {
	require.False(t, ObjectPointer{}.Valid())
	require.True(t, ObjectPointer{LBA: 1}.Valid())
}
