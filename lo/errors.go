package lo

import "errors"

var (
	ErrInvalidArgument = errors.New("lo: invalid argument")
	ErrClosed          = errors.New("lo: use of tree after Close")
)
