package ct

import "errors"

// Sentinel errors returned by Tree operations. Callers compare with
// errors.Is; the tree wraps these with fmt.Errorf("...: %w", ...) for
// context at the call site.
var (
	ErrInvalidArgument    = errors.New("ct: invalid argument")
	ErrOutOfMemory        = errors.New("ct: out of memory")
	ErrCodecFailure       = errors.New("ct: codec failure")
	ErrBackendUnavailable = errors.New("ct: backend unavailable")
	ErrClosed             = errors.New("ct: use of tree after Close")
)
