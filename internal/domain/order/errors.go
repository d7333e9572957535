package order

import "errors"

var (
	ErrMissingRemoteRef = errors.New("photo has no remote reference yet")
	ErrNoItems          = errors.New("order has no printable items")
	ErrInvalid          = errors.New("order submission is invalid")
	ErrRejected         = errors.New("order was rejected")
)
