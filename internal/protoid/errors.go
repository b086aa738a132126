package protoid

import "errors"

// ErrInvalidID is returned when a string fails identifier validation:
// it must start with a letter and contain only letters, digits,
// dashes, and underscores.
var ErrInvalidID = errors.New("invalid identifier")
