package valueobject

import (
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var idRegex = regexp.MustCompile(`^[0-9]{1,18}$`)

// ID is a positive database identifier.
// It is immutable and validated on creation.
type ID struct {
	value int64
}

// NewID creates an ID from an integer, rejecting zero and negatives.
func NewID(v int64) (ID, error) {
	if err := validation.Validate(v,
		validation.Required.Error("id is required"),
		validation.Min(int64(1)).Error("id must be positive"),
	); err != nil {
		return ID{}, ErrInvalidID
	}
	return ID{value: v}, nil
}

// ParseID creates an ID from its decimal representation.
func ParseID(raw string) (ID, error) {
	if err := validation.Validate(raw,
		validation.Required.Error("id is required"),
		validation.Match(idRegex).Error("id must be numeric"),
	); err != nil {
		return ID{}, ErrInvalidID
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ID{}, ErrInvalidID
	}
	return NewID(v)
}

// Int64 returns the raw identifier.
func (i ID) Int64() int64 {
	return i.value
}

// Ptr returns a pointer to a copy of the raw identifier.
func (i ID) Ptr() *int64 {
	v := i.value
	return &v
}

// String returns the decimal representation.
func (i ID) String() string {
	return strconv.FormatInt(i.value, 10)
}

// IsZero returns true for the zero ID.
func (i ID) IsZero() bool {
	return i.value == 0
}
