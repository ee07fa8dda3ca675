// Package codec defines the byte-block compressor contract shared by every
// leaf in a compressed B+Tree, plus the concrete codecs that satisfy it.
package codec

import "errors"

// Sentinel errors returned by Codec implementations.
var (
	// ErrOutputTooSmall is returned when the caller-provided destination
	// buffer cannot hold the result.
	ErrOutputTooSmall = errors.New("codec: output buffer too small")
	// ErrCorrupt is returned by Decompress when the source frame is not a
	// valid frame produced by this codec.
	ErrCorrupt = errors.New("codec: corrupt compressed frame")
	// ErrBackendUnavailable is returned by Open when the codec's backend
	// cannot be initialized in the current process.
	ErrBackendUnavailable = errors.New("codec: backend unavailable")
)

// Algorithm identifies a codec implementation.
type Algorithm int

const (
	// AlgorithmNone is a pass-through codec used only for diagnostic
	// comparisons; it must not be selected in production.
	AlgorithmNone Algorithm = iota
	// AlgorithmSoftware is the always-available byte-oriented codec.
	AlgorithmSoftware
	// AlgorithmHardware is the optional hardware-accelerated codec. The
	// facade substitutes AlgorithmSoftware whenever Open fails.
	AlgorithmHardware
)

// String renders the algorithm name for diagnostics.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmSoftware:
		return "software"
	case AlgorithmHardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// Codec is a stateless (except for one-shot job handles) byte-block
// compressor. Implementations must never allocate the caller's input or
// output buffers; internal framing scratch is permitted where the backing
// library demands it.
type Codec interface {
	// Kind reports which Algorithm this codec implements.
	Kind() Algorithm

	// Open probes backend availability. It is idempotent and must be
	// called before the first Compress/Decompress. Returns
	// ErrBackendUnavailable if the backend cannot be used in this process.
	Open() error

	// Close releases any backend-specific resources acquired by Open.
	Close()

	// Bound returns a worst-case output size for Compress given an input
	// of srcLen bytes.
	Bound(srcLen int) int

	// Compress writes the compressed form of src into dst and returns the
	// number of bytes written. dst must have length >= Bound(len(src)).
	Compress(dst, src []byte) (int, error)

	// Decompress writes the decompressed form of src (a frame produced by
	// Compress) into dst and returns the number of bytes written. dst must
	// have length equal to the original uncompressed size.
	Decompress(dst, src []byte) (int, error)
}
