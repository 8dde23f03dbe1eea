package match

import "errors"

// Business-rule rejections. All are local, synchronous and non-retryable;
// the HTTP layer maps them with errors.Is. Anything else coming out of a
// store is an opaque internal failure.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDelivery   = errors.New("invalid delivery")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrNothingToUndo     = errors.New("nothing to undo")
)
