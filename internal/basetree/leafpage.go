// Package basetree implements the classical order-m, leaf-linked B+Tree
// mechanics (search, split, merge, parent fix-up, leftmost-leaf maintenance)
// once, generically, over a pluggable leaf payload. Both the compressed
// (CT) and large-object (LO) trees instantiate the same Tree[V] with a
// different LeafPage[V] implementation, so no B+Tree logic is duplicated
// between the two variants.
package basetree

import "errors"

// ErrLeafFull is returned by LeafPage.Put when key is new and the leaf
// cannot accept it without first being split by the owning Tree. It is
// never returned to a Tree caller: Put retries transparently after
// splitting.
var ErrLeafFull = errors.New("basetree: leaf full, split required")

// LeafPage is the capability set a leaf payload must provide. The base
// tree never inspects V directly; it only ever routes by key and asks the
// leaf to split, merge, or report occupancy.
type LeafPage[V any] interface {
	// Get looks up key without mutating any visible state.
	Get(key int64) (V, bool)

	// Put installs (key, val). It returns ErrLeafFull if key is new and
	// the leaf has no room left; the tree then splits and retries.
	Put(key int64, val V) error

	// Delete removes key, reporting whether it was present.
	Delete(key int64) bool

	// Len reports the number of live keys.
	Len() int

	// IsUnderflow reports whether the leaf has fallen below the merge
	// threshold and should be considered for merging with a sibling.
	IsUnderflow() bool

	// Keys returns the leaf's live keys in ascending order. Used for
	// choosing split separators and for ordered range walks.
	Keys() []int64

	// Split moves roughly half of the receiver's entries (by key order)
	// into newLeaf (a freshly constructed, empty leaf of the same
	// concrete type) and returns the separator key: every key in newLeaf
	// is >= separator, every remaining key in the receiver is <
	// separator. An error means the receiver could not be safely
	// redistributed (e.g. a hash-routed leaf whose sub-page directory
	// cannot hold its share); the caller must not assume either leaf was
	// left in a consistent state and should propagate the error.
	Split(newLeaf LeafPage[V]) (separator int64, err error)

	// MergeFrom absorbs every entry of right into the receiver. right is
	// discarded by the caller afterwards. If the combined entries cannot
	// be redistributed (e.g. two sub-page directories that individually
	// fit but whose union overflows), MergeFrom returns an error and
	// leaves the receiver and right untouched; the caller should then
	// tolerate the underflow rather than merge.
	MergeFrom(right LeafPage[V]) error
}
