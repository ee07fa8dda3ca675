package codec

// Hardware models an Intel-QPL-class hardware-offload codec. No pure-Go QPL
// binding exists in this environment, so Open always reports
// ErrBackendUnavailable; callers (the CT facade) are required by §4.1/§4.4 to
// transparently substitute the software codec when that happens. The type
// still implements the full Codec interface so a future cgo-gated QPL
// binding could satisfy the same call sites without changing anything else.
type Hardware struct {
	fallback *Software
}

// NewHardware constructs the hardware codec handle. It does not probe
// availability until Open is called.
func NewHardware() *Hardware {
	return &Hardware{fallback: NewSoftware()}
}

// Kind implements Codec.
func (h *Hardware) Kind() Algorithm { return AlgorithmHardware }

// Open implements Codec. Always unavailable in this build: there is no pure
// Go binding for the target hardware accelerator.
func (h *Hardware) Open() error {
	return ErrBackendUnavailable
}

// Close implements Codec.
func (h *Hardware) Close() {}

// Bound implements Codec, delegating to the software codec's bound so that
// a caller who (incorrectly) calls Bound before checking Open still gets a
// sane worst case.
func (h *Hardware) Bound(srcLen int) int {
	return h.fallback.Bound(srcLen)
}

// Compress implements Codec. Unreachable in production: the facade never
// dispatches to a codec whose Open failed. Delegating to the software path
// keeps the type total rather than panicking if misused directly.
func (h *Hardware) Compress(dst, src []byte) (int, error) {
	return h.fallback.Compress(dst, src)
}

// Decompress implements Codec. See Compress.
func (h *Hardware) Decompress(dst, src []byte) (int, error) {
	return h.fallback.Decompress(dst, src)
}
