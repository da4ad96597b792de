package domain

import (
	"errors"

	"oublog-audit/internal/domain/valueobject"
)

var (
	ErrCommentNotFound       = errors.New("comment not found")
	ErrCommentAlreadyDeleted = errors.New("comment already deleted")

	// Re-export value object errors for convenience.
	ErrInvalidID   = valueobject.ErrInvalidID
	ErrInvalidPage = valueobject.ErrInvalidPage
)
