package markup

import "errors"

var (
	// ErrIncompleteTag reports a tag that is not well-formed yet. More input
	// may complete it, so the buffer is kept as is.
	ErrIncompleteTag = errors.New("markup tag is incomplete")
	// ErrMalformedTag reports a well-formed tag that cannot be interpreted.
	// The tag is discarded.
	ErrMalformedTag = errors.New("markup tag is malformed")
)
