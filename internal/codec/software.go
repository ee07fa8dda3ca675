package codec

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// Software is the always-available byte-oriented codec. It is backed by
// klauspost/compress/s2's block API, which occupies the same speed/ratio
// tier as LZ4 (hence the lz4Ops counter name used by callers).
type Software struct {
	level int
}

// NewSoftware constructs the software codec at the default (fastest) s2
// encoding level. Open is still required before first use, matching every
// other Codec implementation's lifecycle.
func NewSoftware() *Software { return &Software{level: 0} }

// NewSoftwareLevel constructs the software codec at the given compression
// level: 0 selects s2's default block encoder (fastest), 1 selects
// EncodeBetter (more ratio, more CPU), and 2 or above selects EncodeBest
// (s2's slowest, highest-ratio mode).
func NewSoftwareLevel(level int) *Software { return &Software{level: level} }

// Kind implements Codec.
func (s *Software) Kind() Algorithm { return AlgorithmSoftware }

// Open implements Codec. The software codec has no external backend and is
// always available.
func (s *Software) Open() error { return nil }

// Close implements Codec. Nothing to release.
func (s *Software) Close() {}

// Bound implements Codec.
func (s *Software) Bound(srcLen int) int {
	return s2.MaxEncodedLen(srcLen)
}

// Compress implements Codec.
func (s *Software) Compress(dst, src []byte) (int, error) {
	need := s2.MaxEncodedLen(len(src))
	if need < 0 {
		return 0, fmt.Errorf("%w: source too large for s2", ErrOutputTooSmall)
	}
	if len(dst) < need {
		return 0, ErrOutputTooSmall
	}
	var out []byte
	switch {
	case s.level >= 2:
		out = s2.EncodeBest(dst, src)
	case s.level == 1:
		out = s2.EncodeBetter(dst, src)
	default:
		out = s2.Encode(dst, src)
	}
	return len(out), nil
}

// Decompress implements Codec.
func (s *Software) Decompress(dst, src []byte) (int, error) {
	wantLen, err := s2.DecodedLen(src)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(dst) < wantLen {
		return 0, ErrOutputTooSmall
	}
	out, err := s2.Decode(dst, src)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return len(out), nil
}
