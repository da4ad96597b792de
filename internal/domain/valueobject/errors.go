package valueobject

import "errors"

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidPage = errors.New("invalid page")
)
