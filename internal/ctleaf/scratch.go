package ctleaf

import "sync"

// payloadPool recycles the fixed SlotsPerSubPage*8-byte buffers used to
// stage a sub-page's decoded/pre-compression int64 values. Every sub-page
// payload is exactly this size, so unlike a general-purpose variable-size
// buffer pool the pool never needs to check or grow capacity: Get always
// hands back a slice of the right length.
var payloadPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, SlotsPerSubPage*8)
		return &buf
	},
}

// getPayload returns a zero-length-checked SlotsPerSubPage*8-byte scratch
// buffer for staging one sub-page's plaintext values.
func getPayload() []byte {
	buf := payloadPool.Get().(*[]byte)
	return *buf
}

// putPayload returns buf to the pool. Callers must not touch buf afterward.
func putPayload(buf []byte) {
	payloadPool.Put(&buf)
}
