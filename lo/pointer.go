package lo

import "github.com/scigolib/zipcache/internal/loleaf"

// ObjectPointer references a payload stored outside the tree. LBA == 0 is
// the invalid sentinel.
type ObjectPointer = loleaf.ObjectPointer
