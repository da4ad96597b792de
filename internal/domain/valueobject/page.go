package valueobject

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	number int
	size   int
}

// NewPage validates a page request. Zero values select the first page and the default size.
func NewPage(number, size int) (Page, error) {
	if number == 0 {
		number = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if err := validation.Validate(number, validation.Min(1)); err != nil {
		return Page{}, ErrInvalidPage
	}
	if err := validation.Validate(size, validation.Min(1), validation.Max(MaxPageSize)); err != nil {
		return Page{}, ErrInvalidPage
	}
	return Page{number: number, size: size}, nil
}

// Number returns the 1-based page number.
func (p Page) Number() int {
	return p.number
}

// Size returns the page size.
func (p Page) Size() int {
	return p.size
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.number - 1) * p.size
}
