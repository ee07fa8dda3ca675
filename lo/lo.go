// Package lo implements the large-object B+Tree: an ordered int64-to-
// ObjectPointer map referencing payloads stored outside the process.
package lo

import (
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/scigolib/zipcache/internal/basetree"
	"github.com/scigolib/zipcache/internal/loleaf"
)

// Stats reports aggregate allocator accounting for a Tree.
type Stats struct {
	TotalObjects int
	TotalSize    uint64
	NextLBA      uint64
}

// Tree is the public large-object B+Tree. Build one with New. A Tree is
// safe for concurrent use by multiple goroutines.
type Tree struct {
	mu        sync.RWMutex
	base      *basetree.Tree[ObjectPointer]
	nextLBA   uint64
	totalSize uint64
	closed    bool
}

// New builds a Tree. order bounds internal-node fan-out; entries bounds the
// number of live keys a leaf holds before it splits.
func New(order, entries int) (*Tree, error) {
	if order < 2 {
		return nil, fmt.Errorf("lo: order %d: %w", order, ErrInvalidArgument)
	}
	if entries < 2 {
		return nil, fmt.Errorf("lo: entries %d: %w", entries, ErrInvalidArgument)
	}
	t := &Tree{nextLBA: 1}
	t.base = basetree.New(order, entries, func() basetree.LeafPage[ObjectPointer] {
		return loleaf.New(entries)
	})
	return t, nil
}

// Close marks the tree unusable. After Close, AllocateObject, Put, Get,
// Delete and GetRange panic; Stats does not check for a closed tree.
func (t *Tree) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

// AllocateObject reserves a new monotonically increasing LBA for an object
// of the given size. It does not insert anything into the tree; callers
// follow up with Put to index the pointer under a key.
func (t *Tree) AllocateObject(size uint32) ObjectPointer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		panic(ErrClosed)
	}
	p := ObjectPointer{LBA: t.nextLBA, Size: size, Flags: 0}
	t.nextLBA++
	t.totalSize += uint64(size)
	return p
}

// Put indexes p under key.
func (t *Tree) Put(key int64, p ObjectPointer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		panic(ErrClosed)
	}
	return t.base.Put(key, p)
}

// Get looks up key.
func (t *Tree) Get(key int64) (ObjectPointer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		panic(ErrClosed)
	}
	return t.base.Get(key)
}

// Delete removes key, reporting whether it was present.
func (t *Tree) Delete(key int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		panic(ErrClosed)
	}
	return t.base.Delete(key)
}

// GetRange returns, in ascending key order, up to limit entries whose key
// falls in [lo, hi] inclusive.
func (t *Tree) GetRange(lo, hi int64, limit int) ([]int64, []ObjectPointer) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		panic(ErrClosed)
	}

	var keys []int64
	var ptrs []ObjectPointer
	t.base.Walk(func(page basetree.LeafPage[ObjectPointer]) bool {
		if leaf, ok := page.(*loleaf.Leaf); ok && leaf.Len() > 0 && leaf.MaxKey() < lo {
			return true
		}
		for _, k := range page.Keys() {
			if k < lo {
				continue
			}
			if k > hi {
				return false
			}
			if len(keys) >= limit {
				return false
			}
			v, ok := page.Get(k)
			if !ok {
				continue
			}
			keys = append(keys, k)
			ptrs = append(ptrs, v)
		}
		return len(keys) < limit
	})
	return keys, ptrs
}

// ObjectPointerChecksum computes a deterministic 32-bit checksum over b,
// using the standard library's IEEE CRC-32; a nonempty input whose CRC is 0
// yields 1 instead, so the result is nonzero for every nonempty input.
// Callers use it to validate external payloads the pointer references; the
// tree itself never reads payload bytes.
func ObjectPointerChecksum(b []byte) uint32 {
	sum := crc32.ChecksumIEEE(b)
	if sum == 0 && len(b) > 0 {
		return 1
	}
	return sum
}

// Stats reports allocator and occupancy totals.
func (t *Tree) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Stats{
		TotalObjects: t.base.Len(),
		TotalSize:    t.totalSize,
		NextLBA:      t.nextLBA,
	}
}
