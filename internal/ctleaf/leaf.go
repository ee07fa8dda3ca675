package ctleaf

import (
	"sort"

	"github.com/scigolib/zipcache/internal/basetree"
	"github.com/scigolib/zipcache/internal/codec"
)

// Leaf is a compressed leaf page: a fixed array of hash-routed sub-pages
// plus an optional lazy write-combining buffer. It implements
// basetree.LeafPage[int64].
type Leaf struct {
	subPageCount  int
	subPages      []subPage
	capacity      int // mirrors the tree's configured entries-per-leaf cap
	lazy          bool
	buffer        *writeBuffer
	codecs        *CodecSet
	codecFailures uint64
	opsByAlgo     map[codec.Algorithm]uint64
}

// Config bundles the construction-time parameters every Leaf in a CT tree
// shares, so the tree's newLeaf closure only needs to capture one value.
type Config struct {
	SubPageCount   int
	Capacity       int
	Lazy           bool
	BufferSize     int
	FlushThreshold int
	Codecs         *CodecSet
}

// New constructs an empty leaf from cfg.
func New(cfg Config) *Leaf {
	l := &Leaf{
		subPageCount: cfg.SubPageCount,
		subPages:     make([]subPage, cfg.SubPageCount),
		capacity:     cfg.Capacity,
		lazy:         cfg.Lazy,
		codecs:       cfg.Codecs,
		opsByAlgo:    make(map[codec.Algorithm]uint64),
	}
	if cfg.Lazy {
		l.buffer = newWriteBuffer(cfg.BufferSize, cfg.FlushThreshold)
	}
	return l
}

// Get implements basetree.LeafPage.
func (l *Leaf) Get(key int64) (int64, bool) {
	if l.lazy {
		if v, ok := l.buffer.lookup(key); ok {
			return v, true
		}
	}
	sp := &l.subPages[routeSubPage(key, l.subPageCount)]
	v, ok, err := sp.get(key, l.codecs)
	if err != nil {
		l.codecFailures++
		return AbsentValue, false
	}
	if !ok {
		return AbsentValue, false
	}
	return v, true
}

// Put implements basetree.LeafPage.
func (l *Leaf) Put(key, val int64) error {
	if l.lazy {
		return l.bufferedPut(key, val)
	}
	return l.eagerPut(key, val)
}

func (l *Leaf) eagerPut(key, val int64) error {
	sp := &l.subPages[routeSubPage(key, l.subPageCount)]
	if _, exists := sp.find(key); !exists && l.Len() >= l.capacity {
		return basetree.ErrLeafFull
	}
	if err := sp.put(key, val, l.codecs); err != nil {
		if err == errSubPageFull {
			return basetree.ErrLeafFull
		}
		l.codecFailures++
		return err
	}
	l.opsByAlgo[l.codecs.Active()]++
	return nil
}

func (l *Leaf) bufferedPut(key, val int64) error {
	if !l.exists(key) && l.Len() >= l.capacity {
		return basetree.ErrLeafFull
	}
	// A subPageWouldSaturate key forces an eager flush now: the buffer has
	// no per-sub-page limit of its own, so without this check it could
	// silently accumulate more distinct keys for one sub-page than its
	// directory can ever hold, surfacing as an unrecoverable overflow much
	// later inside Flush (see bufferedPut's capacity check above for the
	// leaf-wide analog; this is the same guard at sub-page granularity).
	// If the sub-page is still full after that flush, the leaf reports
	// ErrLeafFull so the tree splits it before key is buffered.
	if l.buffer.wouldOverflow() || l.subPageWouldSaturate(key) {
		if err := l.Flush(); err != nil {
			return err
		}
		if l.subPageWouldSaturate(key) {
			return basetree.ErrLeafFull
		}
	}
	l.buffer.append(key, val)
	if l.buffer.atOrAboveThreshold() {
		return l.Flush()
	}
	return nil
}

// exists reports whether key is currently live, checking the buffer first
// (it shadows the sub-page) and falling back to the owning sub-page.
func (l *Leaf) exists(key int64) bool {
	if _, ok := l.buffer.lookup(key); ok {
		return true
	}
	_, live := l.find(key)
	return live
}

// subPageWouldSaturate reports whether buffering key would push its owning
// sub-page's pending distinct-key count — already-live entries plus
// not-yet-flushed new keys buffered for the same sub-page — past its
// directory size. Flushing before that point keeps Flush itself from ever
// discovering a sub-page it cannot fit, which is what would otherwise force
// an unrecoverable split-time overflow (see Split/MergeFrom).
func (l *Leaf) subPageWouldSaturate(key int64) bool {
	idx := routeSubPage(key, l.subPageCount)
	sp := &l.subPages[idx]
	if _, exists := sp.find(key); exists {
		return false
	}
	pending := map[int64]bool{key: true}
	for _, e := range l.buffer.entries {
		if routeSubPage(e.key, l.subPageCount) != idx {
			continue
		}
		if _, live := sp.find(e.key); live {
			continue
		}
		pending[e.key] = true
	}
	return sp.liveCount+len(pending) > SlotsPerSubPage
}

// Flush drains the write buffer into the owning sub-pages, sub-page
// batched, last-writer-wins among duplicates, preserving append order.
func (l *Leaf) Flush() error {
	if !l.lazy || l.buffer.len() == 0 {
		return nil
	}
	bySubPage := make(map[int][]bufEntry)
	for _, e := range l.buffer.entries {
		idx := routeSubPage(e.key, l.subPageCount)
		bySubPage[idx] = append(bySubPage[idx], e)
	}
	for idx, entries := range bySubPage {
		last := make(map[int64]int64, len(entries))
		order := make([]int64, 0, len(entries))
		for _, e := range entries {
			if _, seen := last[e.key]; !seen {
				order = append(order, e.key)
			}
			last[e.key] = e.val
		}
		sp := &l.subPages[idx]
		for _, k := range order {
			if err := sp.put(k, last[k], l.codecs); err != nil {
				if err == errSubPageFull {
					return basetree.ErrLeafFull
				}
				l.codecFailures++
				return err
			}
			l.opsByAlgo[l.codecs.Active()]++
		}
	}
	l.buffer.clear()
	return nil
}

// Delete implements basetree.LeafPage. Deletes are never buffered: they act
// immediately on both the write buffer and the owning sub-page.
func (l *Leaf) Delete(key int64) bool {
	found := false
	if l.lazy {
		if _, ok := l.buffer.lookup(key); ok {
			found = true
			l.buffer.removeKey(key)
		}
	}
	sp := &l.subPages[routeSubPage(key, l.subPageCount)]
	if sp.delete(key) {
		found = true
	}
	return found
}

// Len implements basetree.LeafPage.
func (l *Leaf) Len() int {
	n := 0
	for i := range l.subPages {
		n += l.subPages[i].liveCount
	}
	if l.lazy {
		seen := make(map[int64]bool)
		for _, e := range l.buffer.entries {
			if !seen[e.key] {
				if _, live := l.find(e.key); !live {
					n++
				}
				seen[e.key] = true
			}
		}
	}
	return n
}

// find reports whether key is currently live in a sub-page (ignoring the
// buffer), used by Len to avoid double-counting buffered overwrites.
func (l *Leaf) find(key int64) (int64, bool) {
	sp := &l.subPages[routeSubPage(key, l.subPageCount)]
	slot, ok := sp.find(key)
	if !ok {
		return 0, false
	}
	return 0, sp.live[slot]
}

// IsUnderflow implements basetree.LeafPage: half-full is the merge
// threshold.
func (l *Leaf) IsUnderflow() bool {
	return l.Len() < l.capacity/2
}

// Keys implements basetree.LeafPage, returning all live keys (sub-pages and
// buffer) in ascending order.
func (l *Leaf) Keys() []int64 {
	return l.entries().keys()
}

// Split implements basetree.LeafPage: entries are gathered in key order
// (flushing the buffer first), split at the median, and reinserted into
// fresh sub-page arrays on each side. Splitting a sorted entry list in half
// can only maintain or decrease each sub-page's per-half live count versus
// the pre-split whole (the two halves partition the same routed entries), so
// eagerPut below cannot overflow a sub-page as long as bufferedPut's
// subPageWouldSaturate check kept the pre-split leaf within bounds; the error
// return exists as a backstop, not the primary defense. On such an error the
// receiver's pre-split sub-pages are restored before returning.
func (l *Leaf) Split(newLeaf basetree.LeafPage[int64]) (int64, error) {
	right := newLeaf.(*Leaf)

	if err := l.Flush(); err != nil {
		return 0, err
	}
	all := l.entries()
	sort.Slice(all, func(i, j int) bool { return all[i].key < all[j].key })

	mid := len(all) / 2
	leftHalf, rightHalf := all[:mid], all[mid:]

	prev := l.subPages
	l.reset()
	right.reset()
	for _, e := range leftHalf {
		if err := l.eagerPut(e.key, e.val); err != nil {
			l.subPages = prev
			return 0, err
		}
	}
	for _, e := range rightHalf {
		if err := right.eagerPut(e.key, e.val); err != nil {
			l.subPages = prev
			return 0, err
		}
	}
	if len(rightHalf) == 0 {
		return all[len(all)-1].key + 1, nil
	}
	return rightHalf[0].key, nil
}

// MergeFrom implements basetree.LeafPage. Unlike Split, the two leaves being
// merged are independent: each may separately hold up to SlotsPerSubPage live
// keys routed to the same sub-page index, and their union can exceed it. The
// combined per-sub-page counts are checked before any mutation so a rejected
// merge leaves both l and right untouched, letting the caller tolerate the
// underflow instead of losing entries.
func (l *Leaf) MergeFrom(rightPage basetree.LeafPage[int64]) error {
	right := rightPage.(*Leaf)
	if err := l.Flush(); err != nil {
		return err
	}
	if err := right.Flush(); err != nil {
		return err
	}
	all := append(l.entries(), right.entries()...)

	counts := make([]int, l.subPageCount)
	for _, e := range all {
		counts[routeSubPage(e.key, l.subPageCount)]++
		if counts[routeSubPage(e.key, l.subPageCount)] > SlotsPerSubPage {
			return basetree.ErrLeafFull
		}
	}

	l.reset()
	for _, e := range all {
		if err := l.eagerPut(e.key, e.val); err != nil {
			return err
		}
	}
	return nil
}

func (l *Leaf) reset() {
	l.subPages = make([]subPage, l.subPageCount)
	if l.lazy {
		l.buffer.clear()
	}
}

// Accounting returns the leaf's total uncompressed and compressed byte
// accounting across every written sub-page.
func (l *Leaf) Accounting() (uncompressed, compressed uint64) {
	for i := range l.subPages {
		sp := &l.subPages[i]
		if len(sp.compressed) == 0 {
			continue
		}
		uncompressed += SlotsPerSubPage * 8
		compressed += uint64(len(sp.compressed))
	}
	return
}

// CodecFailures returns the number of decode/encode failures observed by
// this leaf.
func (l *Leaf) CodecFailures() uint64 { return l.codecFailures }

// Ops returns the number of successful sub-page encodes performed under
// algo by this leaf.
func (l *Leaf) Ops(algo codec.Algorithm) uint64 { return l.opsByAlgo[algo] }

// Recompress re-encodes every live sub-page under algo, used by the CT
// facade's SetAlgorithm walk. It flushes the write buffer first so no
// pending entry is skipped.
func (l *Leaf) Recompress(algo codec.Algorithm) error {
	if err := l.Flush(); err != nil {
		return err
	}
	for i := range l.subPages {
		if err := l.subPages[i].recompressAs(l.codecs, algo); err != nil {
			return err
		}
	}
	return nil
}

type pair struct {
	key int64
	val int64
}

type pairs []pair

func (p pairs) keys() []int64 {
	out := make([]int64, len(p))
	for i, e := range p {
		out[i] = e.key
	}
	return out
}

// entries gathers every live (key, value) pair across sub-pages and the
// buffer (buffer wins on conflicting keys), sorted by key.
func (l *Leaf) entries() pairs {
	seen := make(map[int64]int64)
	order := make([]int64, 0, l.capacity)

	for i := range l.subPages {
		sp := &l.subPages[i]
		if sp.liveCount == 0 {
			continue
		}
		values, err := sp.decodeValues(l.codecs)
		if err != nil {
			continue
		}
		for slot := 0; slot < SlotsPerSubPage; slot++ {
			if sp.live[slot] {
				k := sp.keys[slot]
				if _, ok := seen[k]; !ok {
					order = append(order, k)
				}
				seen[k] = values[slot]
			}
		}
	}
	if l.lazy {
		for _, e := range l.buffer.entries {
			if _, ok := seen[e.key]; !ok {
				order = append(order, e.key)
			}
			seen[e.key] = e.val
		}
	}

	out := make(pairs, len(order))
	for i, k := range order {
		out[i] = pair{key: k, val: seen[k]}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}
