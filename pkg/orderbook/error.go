package orderbook

import "errors"

var (
	ErrInvalidOrder      = errors.New("invalid order")
	ErrEmptyQueue        = errors.New("empty queue")
	ErrInternalInvariant = errors.New("internal invariant violation")
)
