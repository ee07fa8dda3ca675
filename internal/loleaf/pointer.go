// Package loleaf implements the large-object tree's leaf payload: a dense
// sorted array of (key, ObjectPointer) pairs, the simpler sibling of
// ctleaf's hash-routed compressed pages.
package loleaf

// ObjectPointer references a payload stored outside the tree (on an SSD or
// other external object store the tree itself never touches). LBA == 0 is
// the invalid sentinel; AllocateObject never returns it.
type ObjectPointer struct {
	LBA   uint64
	Size  uint32
	Flags uint32
}

// Valid reports whether p references a real object.
func (p ObjectPointer) Valid() bool {
	return p.LBA != 0
}
