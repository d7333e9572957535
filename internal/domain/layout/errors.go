package layout

import "errors"

var (
	ErrMissingDimensions = errors.New("missing source or viewport dimensions")
)
