package codec

// None is a pass-through codec: Compress and Decompress copy bytes
// verbatim. It exists only for diagnostic comparisons (e.g. measuring the
// compression ratio a real codec achieves) and must not be selected in
// production configurations.
type None struct{}

// NewNone constructs the pass-through codec.
func NewNone() *None { return &None{} }

// Kind implements Codec.
func (n *None) Kind() Algorithm { return AlgorithmNone }

// Open implements Codec. Always available.
func (n *None) Open() error { return nil }

// Close implements Codec.
func (n *None) Close() {}

// Bound implements Codec: a pass-through never expands its input.
func (n *None) Bound(srcLen int) int { return srcLen }

// Compress implements Codec.
func (n *None) Compress(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, ErrOutputTooSmall
	}
	return copy(dst, src), nil
}

// Decompress implements Codec.
func (n *None) Decompress(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, ErrOutputTooSmall
	}
	return copy(dst, src), nil
}
