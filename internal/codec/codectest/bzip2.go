// Package codectest provides a third, independently-implemented codec used
// only by property-based tests that check codec substitutability (a leaf's
// visible key/value contents must not depend on which codec compressed it).
// It is never reachable from production configuration.
package codectest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/scigolib/zipcache/internal/codec"
)

// BZIP2 wraps github.com/dsnet/compress/bzip2 behind the codec.Codec
// interface, grounded on the teacher's own BZIP2Filter comment recommending
// this exact package for bzip2 write support (compress/bzip2 in the standard
// library only decompresses).
type BZIP2 struct {
	level int
}

// New constructs the test codec at the default compression level.
func New() *BZIP2 { return &BZIP2{level: 6} }

// Kind implements codec.Codec. BZIP2 has no place in the public Algorithm
// enum, so it reports AlgorithmSoftware's tier loosely for diagnostics only;
// production code never calls Kind on this type.
func (b *BZIP2) Kind() codec.Algorithm { return codec.AlgorithmSoftware }

// Open implements codec.Codec. Always available (pure Go).
func (b *BZIP2) Open() error { return nil }

// Close implements codec.Codec.
func (b *BZIP2) Close() {}

// Bound implements codec.Codec. bzip2 has no tight analytic bound; double
// the input plus a small constant is generous for the small payloads a
// compressed leaf sub-page ever holds.
func (b *BZIP2) Bound(srcLen int) int {
	return srcLen*2 + 256
}

// Compress implements codec.Codec.
func (b *BZIP2) Compress(dst, src []byte) (int, error) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriterLevel(&buf, b.level)
	if err != nil {
		return 0, fmt.Errorf("bzip2 writer: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("bzip2 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("bzip2 compress close: %w", err)
	}
	if len(dst) < buf.Len() {
		return 0, codec.ErrOutputTooSmall
	}
	return copy(dst, buf.Bytes()), nil
}

// Decompress implements codec.Codec.
func (b *BZIP2) Decompress(dst, src []byte) (int, error) {
	r, err := bzip2.NewReader(bytes.NewReader(src), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", codec.ErrCorrupt, err)
	}
	n, err := io.ReadFull(r, dst)
	if err != nil && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("%w: %v", codec.ErrCorrupt, err)
	}
	return n, nil
}
