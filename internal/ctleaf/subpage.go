// Package ctleaf implements the compressed leaf page of the DRAM-tier
// compressed B+Tree: a fixed set of hash-routed sub-pages, each holding a
// plaintext slot directory and a compressed values buffer.
package ctleaf

import (
	"encoding/binary"
	"errors"

	"github.com/cespare/xxhash/v2"

	"github.com/scigolib/zipcache/internal/codec"
)

// SlotsPerSubPage is the fixed directory size S of every sub-page.
const SlotsPerSubPage = 8

// AbsentValue is the sentinel CT value returned for a key that is not live.
const AbsentValue = int64(-1)

// errSubPageFull signals that a sub-page's directory has no free slot for a
// genuinely new key; the owning leaf translates this into basetree.ErrLeafFull.
var errSubPageFull = errors.New("ctleaf: sub-page directory full")

// CodecSet resolves an Algorithm to its live Codec handle. The CT facade
// owns one CodecSet per tree and threads it through every leaf operation, so
// sub-pages never hold a direct Codec reference (only the Algorithm tag they
// were last compressed with).
type CodecSet struct {
	active codec.Algorithm
	byKind map[codec.Algorithm]codec.Codec
}

// NewCodecSet builds a CodecSet from the codecs available to a tree and the
// initially active algorithm.
func NewCodecSet(active codec.Algorithm, codecs map[codec.Algorithm]codec.Codec) *CodecSet {
	return &CodecSet{active: active, byKind: codecs}
}

// Active returns the algorithm new writes should compress with.
func (cs *CodecSet) Active() codec.Algorithm { return cs.active }

// SetActive switches the algorithm used for future writes.
func (cs *CodecSet) SetActive(a codec.Algorithm) { cs.active = a }

// Get resolves a tagged algorithm to its Codec, for decompressing
// sub-pages that were compressed under a now-inactive algorithm.
func (cs *CodecSet) Get(a codec.Algorithm) codec.Codec { return cs.byKind[a] }

// routeSubPage returns the sub-page index a key is routed to, stable for
// the lifetime of the tree.
func routeSubPage(key int64, subPageCount int) int {
	h := hashKey(key)
	return int(h % uint64(subPageCount))
}

// slotHome returns the directory slot a key starts probing from within its
// sub-page, derived from a different portion of the same hash so it
// decorrelates from the sub-page selection.
func slotHome(key int64) int {
	h := hashKey(key)
	return int((h >> 32) % SlotsPerSubPage)
}

func hashKey(key int64) uint64 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(key))
	return xxhash.Sum64(b[:])
}

// subPage is one hash partition of a compressed leaf page.
type subPage struct {
	keys       [SlotsPerSubPage]int64
	live       [SlotsPerSubPage]bool
	liveCount  int
	codecTag   codec.Algorithm
	compressed []byte
}

// find returns the slot holding key as a live entry, if any; slots whose
// live bit is clear are skipped.
func (sp *subPage) find(key int64) (slot int, ok bool) {
	for i := 0; i < SlotsPerSubPage; i++ {
		if sp.live[i] && sp.keys[i] == key {
			return i, true
		}
	}
	return 0, false
}

// freeSlot linearly probes starting at home for a slot with no live entry.
func (sp *subPage) freeSlot(home int) (slot int, ok bool) {
	for step := 0; step < SlotsPerSubPage; step++ {
		i := (home + step) % SlotsPerSubPage
		if !sp.live[i] {
			return i, true
		}
	}
	return 0, false
}

// decodeValues decompresses the sub-page's values, or returns a zeroed
// array if the sub-page has never been written.
func (sp *subPage) decodeValues(codecs *CodecSet) ([SlotsPerSubPage]int64, error) {
	var values [SlotsPerSubPage]int64
	if len(sp.compressed) == 0 {
		return values, nil
	}
	c := codecs.Get(sp.codecTag)
	dst := getPayload()
	defer putPayload(dst)
	n, err := c.Decompress(dst, sp.compressed)
	if err != nil {
		return values, err
	}
	for i := 0; i < SlotsPerSubPage && (i+1)*8 <= n; i++ {
		values[i] = int64(binary.LittleEndian.Uint64(dst[i*8 : i*8+8]))
	}
	return values, nil
}

// encodeValues compresses values under algo and stores the result, tagging
// the sub-page with algo so future decodes use the matching codec.
func (sp *subPage) encodeValues(codecs *CodecSet, algo codec.Algorithm, values [SlotsPerSubPage]int64) error {
	src := getPayload()
	defer putPayload(src)
	for i, v := range values {
		binary.LittleEndian.PutUint64(src[i*8:i*8+8], uint64(v))
	}
	c := codecs.Get(algo)
	dst := make([]byte, c.Bound(len(src)))
	n, err := c.Compress(dst, src)
	if err != nil {
		return err
	}
	sp.compressed = dst[:n]
	sp.codecTag = algo
	return nil
}

// get looks up key's value without mutating any visible state.
func (sp *subPage) get(key int64, codecs *CodecSet) (int64, bool, error) {
	slot, ok := sp.find(key)
	if !ok {
		return 0, false, nil
	}
	values, err := sp.decodeValues(codecs)
	if err != nil {
		return 0, false, err
	}
	return values[slot], true, nil
}

// put installs (key, val), recompressing the sub-page under the active
// algorithm. Returns errSubPageFull if key is new and no slot is free. If the
// encode fails, a slot newly claimed for key is released again, so the
// sub-page is left as it was before the call.
func (sp *subPage) put(key, val int64, codecs *CodecSet) error {
	values, err := sp.decodeValues(codecs)
	if err != nil {
		return err
	}
	slot, ok := sp.find(key)
	claimed := false
	if !ok {
		slot, ok = sp.freeSlot(slotHome(key))
		if !ok {
			return errSubPageFull
		}
		sp.keys[slot] = key
		sp.live[slot] = true
		sp.liveCount++
		claimed = true
	}
	values[slot] = val
	if err := sp.encodeValues(codecs, codecs.Active(), values); err != nil {
		if claimed {
			sp.keys[slot] = 0
			sp.live[slot] = false
			sp.liveCount--
		}
		return err
	}
	return nil
}

// delete clears key's live bit and zeroes its directory key. No
// recompression is required: the directory, not the compressed bytes,
// carries liveness.
func (sp *subPage) delete(key int64) bool {
	slot, ok := sp.find(key)
	if !ok {
		return false
	}
	sp.keys[slot] = 0
	sp.live[slot] = false
	sp.liveCount--
	return true
}

// recompressAs re-encodes the sub-page's current values under a new
// algorithm, used by the CT facade's SetAlgorithm walk.
func (sp *subPage) recompressAs(codecs *CodecSet, algo codec.Algorithm) error {
	if sp.liveCount == 0 && len(sp.compressed) == 0 {
		return nil
	}
	values, err := sp.decodeValues(codecs)
	if err != nil {
		return err
	}
	return sp.encodeValues(codecs, algo, values)
}
