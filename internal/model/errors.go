package model

import "errors"

// ErrInvalidArgument marks caller errors: wrong-shaped scenario snapshots,
// inverted sampling ranges, out-of-range deal inputs.
var ErrInvalidArgument = errors.New("invalid argument")
