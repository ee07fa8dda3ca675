package ct

import (
	"fmt"

	"github.com/scigolib/zipcache/internal/codec"
)

// Layout selects a leaf shape. LayoutHashedCompressed is the only one
// implemented today; the field exists so a future leaf geometry (e.g. a
// sorted rather than hashed directory) can be added without breaking the
// Config surface.
type Layout int

const (
	LayoutHashedCompressed Layout = iota
)

func (l Layout) String() string {
	if l == LayoutHashedCompressed {
		return "hashed-compressed"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// Algorithm re-exports the codec package's algorithm enum so callers never
// import internal/codec directly.
type Algorithm = codec.Algorithm

const (
	AlgorithmNone     = codec.AlgorithmNone
	AlgorithmSoftware = codec.AlgorithmSoftware
	AlgorithmHardware = codec.AlgorithmHardware
)

// Config tunes a Tree's leaf geometry, codec, and write-buffering
// behavior. Build one with DefaultConfig and functional Options, following
// the teacher's FileWriterOption/LazyOption pattern.
type Config struct {
	Layout           Layout
	Algorithm        Algorithm
	SubPages         int
	CompressionLevel int
	BufferSize       int
	FlushThreshold   int
	LazyCompression  bool
	Telemetry        bool
}

// DefaultConfig returns hashed layout, 16 sub-pages, a 512-entry write
// buffer with a flush threshold of 10, and lazy compression off.
func DefaultConfig(algo Algorithm) Config {
	return Config{
		Layout:           LayoutHashedCompressed,
		Algorithm:        algo,
		SubPages:         16,
		CompressionLevel: 0,
		BufferSize:       512,
		FlushThreshold:   10,
		LazyCompression:  false,
	}
}

func (c Config) validate() error {
	if c.SubPages < 1 {
		return fmt.Errorf("ct: sub-page count %d: %w", c.SubPages, ErrInvalidArgument)
	}
	if c.LazyCompression && c.FlushThreshold >= c.BufferSize {
		return fmt.Errorf("ct: flush threshold %d must be < buffer size %d: %w", c.FlushThreshold, c.BufferSize, ErrInvalidArgument)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 2 {
		return fmt.Errorf("ct: compression level %d must be 0, 1, or 2: %w", c.CompressionLevel, ErrInvalidArgument)
	}
	return nil
}
