package loleaf

import (
	"sort"

	"github.com/scigolib/zipcache/internal/basetree"
)

// Leaf is a dense, key-sorted array of object pointers. It implements
// basetree.LeafPage[ObjectPointer]. Unlike ctleaf.Leaf there is no
// compression and no sub-page routing: the LO tree only adds algorithmic
// depth at the allocator and range-scan layer (lo.Tree), not at the leaf.
type Leaf struct {
	keys     []int64
	vals     []ObjectPointer
	capacity int
}

// New constructs an empty leaf with room for capacity entries before a
// split is required.
func New(capacity int) *Leaf {
	return &Leaf{capacity: capacity}
}

func (l *Leaf) indexOf(key int64) (int, bool) {
	i := sort.Search(len(l.keys), func(i int) bool { return l.keys[i] >= key })
	if i < len(l.keys) && l.keys[i] == key {
		return i, true
	}
	return i, false
}

// Get implements basetree.LeafPage.
func (l *Leaf) Get(key int64) (ObjectPointer, bool) {
	i, ok := l.indexOf(key)
	if !ok {
		return ObjectPointer{}, false
	}
	return l.vals[i], true
}

// Put implements basetree.LeafPage.
func (l *Leaf) Put(key int64, val ObjectPointer) error {
	i, ok := l.indexOf(key)
	if ok {
		l.vals[i] = val
		return nil
	}
	if len(l.keys) >= l.capacity {
		return basetree.ErrLeafFull
	}
	l.keys = append(l.keys, 0)
	copy(l.keys[i+1:], l.keys[i:])
	l.keys[i] = key

	l.vals = append(l.vals, ObjectPointer{})
	copy(l.vals[i+1:], l.vals[i:])
	l.vals[i] = val
	return nil
}

// Delete implements basetree.LeafPage.
func (l *Leaf) Delete(key int64) bool {
	i, ok := l.indexOf(key)
	if !ok {
		return false
	}
	l.keys = append(l.keys[:i], l.keys[i+1:]...)
	l.vals = append(l.vals[:i], l.vals[i+1:]...)
	return true
}

// Len implements basetree.LeafPage.
func (l *Leaf) Len() int { return len(l.keys) }

// IsUnderflow implements basetree.LeafPage.
func (l *Leaf) IsUnderflow() bool {
	return len(l.keys) < l.capacity/2
}

// Keys implements basetree.LeafPage.
func (l *Leaf) Keys() []int64 {
	out := make([]int64, len(l.keys))
	copy(out, l.keys)
	return out
}

// Split implements basetree.LeafPage, handing the upper half of the sorted
// array to newLeaf. A dense sorted array always splits cleanly, so the
// error return is always nil.
func (l *Leaf) Split(newLeaf basetree.LeafPage[ObjectPointer]) (int64, error) {
	right := newLeaf.(*Leaf)
	mid := len(l.keys) / 2

	right.keys = append(right.keys, l.keys[mid:]...)
	right.vals = append(right.vals, l.vals[mid:]...)

	sep := l.keys[mid]
	l.keys = l.keys[:mid:mid]
	l.vals = l.vals[:mid:mid]
	return sep, nil
}

// MergeFrom implements basetree.LeafPage. A dense sorted array always
// absorbs a sibling's entries, so the error return is always nil.
func (l *Leaf) MergeFrom(rightPage basetree.LeafPage[ObjectPointer]) error {
	right := rightPage.(*Leaf)
	l.keys = append(l.keys, right.keys...)
	l.vals = append(l.vals, right.vals...)
	return nil
}

// MaxKey returns the greatest key in the leaf, used by GetRange to skip a
// leaf entirely when it falls wholly below the scan's lower bound. Callers
// must not invoke it on an empty leaf.
func (l *Leaf) MaxKey() int64 {
	return l.keys[len(l.keys)-1]
}
