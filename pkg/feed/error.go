package feed

import "errors"

var (
	ErrMalformedRecord   = errors.New("malformed order record")
	ErrUnsupportedFormat = errors.New("unsupported feed format")
)
