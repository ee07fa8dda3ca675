// Package ct implements the DRAM-tier compressed B+Tree: an ordered
// int64-to-int64 map whose leaves transparently compress their payload
// across a fixed set of hash-routed sub-pages.
package ct

import (
	"fmt"
	"strings"
	"sync"

	"github.com/scigolib/zipcache/internal/basetree"
	"github.com/scigolib/zipcache/internal/codec"
	"github.com/scigolib/zipcache/internal/ctleaf"
	"github.com/scigolib/zipcache/internal/telemetry"
)

// Tree is the public compressed B+Tree. The zero value is not usable; build
// one with New. A Tree is safe for concurrent use by multiple goroutines.
type Tree struct {
	mu        sync.RWMutex
	cfg       Config
	base      *basetree.Tree[int64]
	codecs    *ctleaf.CodecSet
	allCodecs map[Algorithm]codec.Codec
	effective Algorithm
	telemetry *telemetry.Collector
	closed    bool
}

// New builds a Tree. order bounds internal-node fan-out; entries bounds the
// number of live keys a leaf holds before it splits.
func New(order, entries int, opts ...Option) (*Tree, error) {
	if order < 2 {
		return nil, fmt.Errorf("ct: order %d: %w", order, ErrInvalidArgument)
	}
	if entries < 2 {
		return nil, fmt.Errorf("ct: entries %d: %w", entries, ErrInvalidArgument)
	}

	cfg := DefaultConfig(AlgorithmSoftware)
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	allCodecs := map[Algorithm]codec.Codec{
		AlgorithmNone:     codec.NewNone(),
		AlgorithmSoftware: codec.NewSoftwareLevel(cfg.CompressionLevel),
		AlgorithmHardware: codec.NewHardware(),
	}
	for _, c := range allCodecs {
		_ = c.Open() // None/Software always succeed; Hardware's failure is handled below.
	}

	effective := cfg.Algorithm
	if effective == AlgorithmHardware {
		if err := allCodecs[AlgorithmHardware].Open(); err != nil {
			effective = AlgorithmSoftware
		}
	}

	codecs := ctleaf.NewCodecSet(effective, allCodecs)

	t := &Tree{
		cfg:       cfg,
		codecs:    codecs,
		allCodecs: allCodecs,
		effective: effective,
	}
	if cfg.Telemetry {
		t.telemetry = telemetry.NewCollector()
	}

	t.base = basetree.New(order, entries, func() basetree.LeafPage[int64] {
		return ctleaf.New(ctleaf.Config{
			SubPageCount:   cfg.SubPages,
			Capacity:       entries,
			Lazy:           cfg.LazyCompression,
			BufferSize:     cfg.BufferSize,
			FlushThreshold: cfg.FlushThreshold,
			Codecs:         codecs,
		})
	})

	return t, nil
}

// Close releases the tree's codec handles. After Close, Put, Get, Delete and
// SetAlgorithm panic; Empty, Size, Stats, Algorithm, AlgorithmStats and Dump
// do not check for a closed tree.
func (t *Tree) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	for _, c := range t.allCodecs {
		c.Close()
	}
	t.closed = true
}

// Put inserts or overwrites key.
func (t *Tree) Put(key, val int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		panic(ErrClosed)
	}
	if err := t.base.Put(key, val); err != nil {
		return fmt.Errorf("ct: put %d: %w", key, ErrCodecFailure)
	}
	if t.telemetry != nil {
		t.telemetry.Observe(telemetry.OpPut, key)
	}
	return nil
}

// Get looks up key.
func (t *Tree) Get(key int64) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		panic(ErrClosed)
	}
	v, ok := t.base.Get(key)
	if t.telemetry != nil {
		t.telemetry.Observe(telemetry.OpGet, key)
	}
	return v, ok
}

// Delete removes key, reporting whether it was present.
func (t *Tree) Delete(key int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		panic(ErrClosed)
	}
	found := t.base.Delete(key)
	if t.telemetry != nil {
		t.telemetry.Observe(telemetry.OpDelete, key)
	}
	return found
}

// Empty reports whether the tree holds no live keys.
func (t *Tree) Empty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.base.Len() == 0
}

// Size returns the number of live keys.
func (t *Tree) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.base.Len()
}

// Stats reports aggregate compression accounting across every leaf.
func (t *Tree) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var s Stats
	t.base.Walk(func(page basetree.LeafPage[int64]) bool {
		leaf := page.(*ctleaf.Leaf)
		u, c := leaf.Accounting()
		s.Uncompressed += u
		s.Compressed += c
		return true
	})
	return s
}

// SetAlgorithm switches the active compression algorithm. Every existing
// leaf is visited and each touched sub-page is decompressed with its
// current codec and recompressed with the new one. If the target codec's
// Open fails, the call returns ErrBackendUnavailable and nothing is
// changed.
func (t *Tree) SetAlgorithm(algo Algorithm) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		panic(ErrClosed)
	}
	c, ok := t.allCodecs[algo]
	if !ok {
		return fmt.Errorf("ct: unknown algorithm %v: %w", algo, ErrInvalidArgument)
	}
	if err := c.Open(); err != nil {
		return fmt.Errorf("ct: set algorithm %v: %w", algo, ErrBackendUnavailable)
	}

	var walkErr error
	t.base.Walk(func(page basetree.LeafPage[int64]) bool {
		leaf := page.(*ctleaf.Leaf)
		if err := leaf.Recompress(algo); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	if walkErr != nil {
		return fmt.Errorf("ct: set algorithm %v: %w", algo, ErrCodecFailure)
	}

	t.codecs.SetActive(algo)
	t.effective = algo
	return nil
}

// Algorithm returns the currently effective algorithm (the substituted
// software codec if the requested hardware codec was unavailable at New).
func (t *Tree) Algorithm() Algorithm {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.effective
}

// AlgorithmStats counts successful sub-page encodes performed under each
// algorithm.
func (t *Tree) AlgorithmStats() AlgorithmStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var s AlgorithmStats
	t.base.Walk(func(page basetree.LeafPage[int64]) bool {
		leaf := page.(*ctleaf.Leaf)
		s.LZ4Ops += leaf.Ops(AlgorithmSoftware)
		s.QPLOps += leaf.Ops(AlgorithmHardware)
		return true
	})
	return s
}

// Dump returns a diagnostic string summarizing size, compression ratio,
// codec failures, and (if enabled) workload telemetry.
func (t *Tree) Dump() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var sb strings.Builder
	var uncompressed, compressed, failures uint64
	t.base.Walk(func(page basetree.LeafPage[int64]) bool {
		leaf := page.(*ctleaf.Leaf)
		u, c := leaf.Accounting()
		uncompressed += u
		compressed += c
		failures += leaf.CodecFailures()
		return true
	})
	fmt.Fprintf(&sb, "ct.Tree{size=%d, algorithm=%s, uncompressed=%d, compressed=%d, codecFailures=%d}",
		t.base.Len(), t.effective, uncompressed, compressed, failures)
	if t.telemetry != nil {
		sb.WriteString(", ")
		sb.WriteString(t.telemetry.Summary())
	}
	return sb.String()
}
