package compose

import "errors"

var (
	ErrDecode = errors.New("composite source could not be decoded")
	ErrEncode = errors.New("composite could not be encoded")
)
